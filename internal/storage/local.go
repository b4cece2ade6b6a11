package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// localStorage keeps uploads on the local filesystem under a base directory.
// Download URLs are plain /uploads/ paths served by the HTTP layer. Meant for
// development and single-node deployments.
type localStorage struct {
	baseDir string
}

// NewLocalStorage creates a disk-backed FileStorage rooted at baseDir.
func NewLocalStorage(baseDir string) (FileStorage, error) {
	if baseDir == "" {
		return nil, errors.New("local storage base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &localStorage{baseDir: baseDir}, nil
}

// BaseDir exposes the root for static file serving.
func (l *localStorage) BaseDir() string {
	return l.baseDir
}

func (l *localStorage) path(objectKey string) (string, error) {
	// Object keys are generated internally, but reject traversal anyway.
	clean := filepath.Clean(objectKey)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", errors.New("invalid object key")
	}
	return filepath.Join(l.baseDir, clean), nil
}

func (l *localStorage) Store(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) error {
	dst, err := l.path(objectKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

func (l *localStorage) DownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if _, err := l.path(objectKey); err != nil {
		return "", err
	}
	return "/uploads/" + objectKey, nil
}

func (l *localStorage) Delete(ctx context.Context, objectKey string) error {
	dst, err := l.path(objectKey)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
