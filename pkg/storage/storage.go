package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound      = errors.New("storage: object not found")
	ErrEmptyKey      = errors.New("storage: key must not be empty")
	ErrInvalidConfig = errors.New("storage: invalid configuration")
)

// ObjectStorage abstracts the document blob store so the service layer can
// run against S3 in production and an in-memory store in tests.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
