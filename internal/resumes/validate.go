package resumes

import (
	"errors"
	"strings"
)

// PDFContentType is the only declared type an upload may carry.
const PDFContentType = "application/pdf"

var (
	ErrWrongExtension   = errors.New("only PDF files are allowed")
	ErrWrongContentType = errors.New("file type is not PDF")
)

// ValidatePDF accepts a file only when its name ends in ".pdf" and its
// declared content type is exactly application/pdf. The extension check is
// case-sensitive and runs first. File contents are not inspected.
func ValidatePDF(fileName, contentType string) error {
	if !strings.HasSuffix(fileName, ".pdf") {
		return ErrWrongExtension
	}
	if contentType != PDFContentType {
		return ErrWrongContentType
	}
	return nil
}

// issueFor maps a validation error to the field issue code and message shown
// to the uploader.
func issueFor(err error) (string, string) {
	switch {
	case errors.Is(err, ErrWrongExtension):
		return "wrong_extension", "Only PDF files are allowed."
	case errors.Is(err, ErrWrongContentType):
		return "wrong_content_type", "File type is not PDF."
	default:
		return "invalid", "Invalid file."
	}
}
