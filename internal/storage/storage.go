package storage

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Driver is a photo store. Upload returns the public URL that gets written
// into the obra's photo list; Delete by that same URL must be idempotent.
type Driver interface {
	Upload(ctx context.Context, file io.Reader, key, contentType string) (publicURL string, err error)
	Delete(ctx context.Context, url string) error
	Owns(url string) bool
}

// PhotoKey builds the object key for a new obra photo. The uuid keeps two
// uploads of the same filename from clobbering each other.
func PhotoKey(obraID, filename string) string {
	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = strings.ToLower(filename[i:])
	}
	return "obras/" + obraID + "/" + uuid.NewString() + ext
}

// ContentTypeFor maps a photo key to its MIME type.
func ContentTypeFor(key string) string {
	switch {
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	case strings.HasSuffix(key, ".webp"):
		return "image/webp"
	case strings.HasSuffix(key, ".gif"):
		return "image/gif"
	case strings.HasSuffix(key, ".jpg"), strings.HasSuffix(key, ".jpeg"):
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
