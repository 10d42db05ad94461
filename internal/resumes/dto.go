package resumes

import (
	"time"

	"resume-matcher/internal/jobs"
)

type resumeResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Label       string    `json:"label"`
}

type reportResponse struct {
	Resume     resumeResponse `json:"resume"`
	Skills     []string       `json:"skills"`
	Match      string         `json:"match"`
	MatchScore int            `json:"matchScore"`
	Scores     []jobs.Score   `json:"scores"`
}

type uploadFormResponse struct {
	Field    string `json:"field"`
	Accept   string `json:"accept"`
	MaxBytes int64  `json:"maxBytes"`
	Notice   string `json:"notice,omitempty"`
}

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	StorageKey       string `json:"storageKey"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

type fromStorageRequest struct {
	StorageKey  string `json:"storageKey"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

func toResumeResponse(res Resume, username string) resumeResponse {
	return resumeResponse{
		ID:          res.ID,
		FileName:    res.FileName,
		ContentType: res.ContentType,
		SizeBytes:   res.SizeBytes,
		UploadedAt:  res.UploadedAt,
		Label:       res.Label(username),
	}
}

func toReportResponse(r Report, username string) reportResponse {
	return reportResponse{
		Resume:     toResumeResponse(r.Resume, username),
		Skills:     r.Skills,
		Match:      r.Match,
		MatchScore: r.MatchScore,
		Scores:     r.Scores,
	}
}
