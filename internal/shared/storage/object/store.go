package object

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"resume-matcher/internal/shared/util"
)

// ErrNotFound is returned by Open when the key does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// Presigner is implemented by stores that can hand out direct-upload URLs.
type Presigner interface {
	PresignPut(ctx context.Context, storageKey, contentType string, expires time.Duration) (string, error)
}

// OwnerPrefix is the key prefix under which an owner's objects live.
func OwnerPrefix(namespace, ownerID string) string {
	return path.Join(strings.Trim(namespace, "/"), util.HashUserKey(ownerID)) + "/"
}

// OwnedBy reports whether storageKey sits inside the owner's area.
func OwnedBy(namespace, ownerID, storageKey string) bool {
	clean := path.Clean("/" + storageKey)[1:]
	if clean != storageKey {
		return false
	}
	return strings.HasPrefix(storageKey, OwnerPrefix(namespace, ownerID))
}
