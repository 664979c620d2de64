package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes images under a directory that the server exposes statically.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Save writes the image under a generated name and returns its relative URL.
func (s *LocalStore) Save(_ context.Context, img Image) (string, error) {
	name := uuid.NewString() + img.Ext()
	if err := os.WriteFile(filepath.Join(s.dir, name), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}

// Dir is the directory served under the URL prefix.
func (s *LocalStore) Dir() string {
	return s.dir
}
