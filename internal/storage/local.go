package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps images on the local filesystem
type LocalStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewLocalStore creates a store rooted at dir. URLs are built as
// <baseURL>/storage/<name>.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}, nil
}

// Save decodes and writes an image, returning its public URL
func (s *LocalStore) Save(ctx context.Context, owner, encoded string) (string, error) {
	data, _, err := DecodeImage(encoded)
	if err != nil {
		return "", err
	}

	name, err := ObjectName(owner, s.now())
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return s.baseURL + "/storage/" + name, nil
}

// Delete removes the file behind url. Missing files are ignored.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	name := path.Base(url)
	if url == "" || name == "." || name == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Handler serves stored files; mount it at /storage/
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix("/storage/", http.FileServer(http.Dir(s.dir)))
}
