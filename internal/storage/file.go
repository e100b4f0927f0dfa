package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideDirectory is returned for paths that resolve outside the storage directory.
var ErrOutsideDirectory = errors.New("path is outside the storage directory")

type fileStorage struct {
	config FileConfig
}

type FileConfig struct {
	Directory string
}

// NewFileStorage creates a new file storage backend
func NewFileStorage(ctx context.Context, f FileConfig) (Storage, error) {
	if f.Directory == "" {
		f.Directory = "."
	}

	return &fileStorage{
		config: f,
	}, nil
}

func (a *fileStorage) Put(ctx context.Context, key string, data []byte, opts ...PutOption) (string, error) {
	filePath := a.URL(key)
	if _, ok := a.within(filePath); !ok {
		return "", fmt.Errorf("%w: %s", ErrOutsideDirectory, key)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// Get accepts a path returned by Put or a key relative to the storage directory.
func (a *fileStorage) Get(ctx context.Context, url string) ([]byte, error) {
	path, err := a.resolve(url)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

func (a *fileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := os.Stat(a.URL(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}

func (a *fileStorage) URL(key string) string {
	return filepath.Join(a.config.Directory, key)
}

func (a *fileStorage) resolve(url string) (string, error) {
	if path, ok := a.within(url); ok {
		return path, nil
	}
	if !filepath.IsAbs(url) {
		if path, ok := a.within(filepath.Join(a.config.Directory, url)); ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrOutsideDirectory, url)
}

// within reports whether path lexically stays inside the storage directory and returns it absolute.
func (a *fileStorage) within(path string) (string, bool) {
	directory, err := filepath.Abs(a.config.Directory)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(directory, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return abs, true
}
