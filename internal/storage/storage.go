package storage

import (
	"context"
	"io"
)

// Uploader stores an object and returns the public URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (publicURL string, err error)
}
