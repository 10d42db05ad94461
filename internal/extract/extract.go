package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Mode selects how stored resume bytes become text.
type Mode string

const (
	// ModeRaw decodes the stored bytes as UTF-8, dropping invalid sequences.
	ModeRaw Mode = "raw"
	// ModePDF parses the PDF structure and falls back to ModeRaw when parsing fails.
	ModePDF Mode = "pdf"
)

// ParseMode maps a config value to a Mode. Unknown values mean ModeRaw.
func ParseMode(v string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(v))) {
	case ModePDF:
		return ModePDF
	default:
		return ModeRaw
	}
}

// Decode converts raw bytes to text. It never fails.
func Decode(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "")
}

// Text extracts text from raw according to mode.
func Text(ctx context.Context, mode Mode, raw []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if mode != ModePDF {
		return Decode(raw), nil
	}
	text, err := extractPDF(raw)
	if err != nil || strings.TrimSpace(text) == "" {
		return Decode(raw), nil
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse: %v", r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
