package storage

import (
	"context"
	"io"
	"time"
)

// Default expiry duration for presigned download URLs.
const DefaultDownloadURLExpiry = 15 * time.Minute

// FileStorage abstracts where uploaded course binaries live. Uploads are
// server side (the API receives multipart bodies and stores them itself);
// downloads go through DownloadURL so an S3 backend can hand out presigned
// links instead of proxying bytes.
type FileStorage interface {
	// Store writes the object and returns nil on success. The objectKey is
	// chosen by the caller and must be unique.
	Store(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error

	// DownloadURL returns a URL a client can GET to fetch the object.
	DownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, objectKey string) error
}
