// Package storage reads objects from an S3-compatible store. The compliance service
// only ever reads: catalog files are published by the administration surface.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when the requested key does not exist in the bucket.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage is a read-only, S3-compatible object storage client.
// Methods use context and streaming readers; no local disk is used.
type Storage interface {
	// Get retrieves an object's content as a streaming reader alongside its info.
	// The caller must close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}
