package cloudstore

import (
	"context"
	"io"
)

// Writer buffers an object and uploads it on Close.
type Writer interface {
	Write(data []byte) (int, error)
	Close() error
}

// Store reads and writes whole objects in a bucket.
type Store interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	NewWriter(ctx context.Context, bucket, key string) (Writer, error)
}
