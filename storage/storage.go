// Package storage provides the blob storage used for uploaded originals and
// their derived image variants.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotExist is returned by Open when no blob is stored under a name.
var ErrNotExist = errors.New("storage: blob does not exist")

// Storage stores blobs under slash-separated names.
// Delete of a missing name is a no-op.
type Storage interface {
	Exists(ctx context.Context, name string) (bool, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Save(ctx context.Context, name string, r io.Reader) error
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// CleanName normalizes name and rejects names escaping the storage root.
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	cleaned := path.Clean("/" + name)
	if cleaned == "/" {
		return "", fmt.Errorf("storage: empty name")
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", fmt.Errorf("storage: invalid name %q", name)
		}
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}

func joinURL(base, name string) string {
	if base == "" {
		base = "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + name
}
