package storage

import (
	"context"
	"io"
)

// Uploader stores uploaded resume documents and returns the stored path.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}
