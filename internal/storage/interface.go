package storage

import (
	"context"
	"fmt"
	"io"
)

type Storage interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, key string, data io.Reader) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Keys are content-addressed: the same bytes always land on the same key, so
// concurrent writers of identical content are harmless.

func OriginalKey(hash string) string {
	return fmt.Sprintf("uploads/%s.xml", hash)
}

func ConsolidatedKey(hash, format string) string {
	return fmt.Sprintf("consolidated/%s.%s", hash, format)
}
