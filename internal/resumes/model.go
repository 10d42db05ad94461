package resumes

import (
	"fmt"
	"time"
)

// Resume is one stored upload. UploadedAt is set once at creation.
type Resume struct {
	ID          string
	ProfileID   string
	FileName    string
	StorageKey  string
	ContentType string
	SizeBytes   int64
	UploadedAt  time.Time
}

// Label renders "<username>'s Resume uploaded on YYYY-MM-DD".
func (r Resume) Label(username string) string {
	return fmt.Sprintf("%s's Resume uploaded on %s", username, r.UploadedAt.UTC().Format("2006-01-02"))
}
