package storage

import (
	"context"
	"fmt"
)

type Storage interface {
	// Put stores data with the given key and returns the storage URL
	Put(ctx context.Context, key string, data []byte, opts ...PutOption) (string, error)
	// Get retrieves data from the given storage URL
	Get(ctx context.Context, url string) ([]byte, error)
	// Exists reports whether an object is stored under the given key
	Exists(ctx context.Context, key string) (bool, error)
	// URL returns the storage URL Put would return for the given key
	URL(key string) string
}

type putOptions struct {
	contentType string
	metadata    map[string]string
}

type PutOption func(*putOptions)

func WithContentType(contentType string) PutOption {
	return func(o *putOptions) {
		o.contentType = contentType
	}
}

// WithMetadata attaches object metadata. Backends without metadata support ignore it.
func WithMetadata(metadata map[string]string) PutOption {
	return func(o *putOptions) {
		o.metadata = metadata
	}
}

func newPutOptions(opts []PutOption) *putOptions {
	o := &putOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// PutIfAbsent stores data only when nothing exists under key yet. It returns the
// storage URL of the object and whether it was already present.
func PutIfAbsent(ctx context.Context, s Storage, key string, data []byte, opts ...PutOption) (string, bool, error) {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to check object existence: %w", err)
	}
	if exists {
		return s.URL(key), true, nil
	}

	url, err := s.Put(ctx, key, data, opts...)
	if err != nil {
		return "", false, err
	}
	return url, false, nil
}
