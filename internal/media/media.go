// Package media stores uploaded report files on local disk and
// resolves stored paths to fetchable URLs.
package media

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is the boundary the rest of the system depends on: save an
// upload and get back a stable relative path, turn a relative path
// into a URL, and best-effort delete by path list.
type Store interface {
	Save(file *multipart.FileHeader) (string, error)
	URL(relPath string) string
	Remove(relPaths []string)
}

type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the upload under a generated name and returns the
// relative path the caller stores on the report.
func (s *LocalStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	relPath := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
	dst, err := os.Create(filepath.Join(s.Dir, relPath))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return relPath, nil
}

func (s *LocalStore) URL(relPath string) string {
	return s.BaseURL + "/" + path.Clean(relPath)
}

// Remove deletes stored files by path list. Failures are logged, not
// escalated; a leftover file never blocks the calling workflow.
func (s *LocalStore) Remove(relPaths []string) {
	for _, p := range relPaths {
		if err := os.Remove(filepath.Join(s.Dir, path.Clean(p))); err != nil && !os.IsNotExist(err) {
			log.Printf("ERROR: Failed to remove media file %s: %v", p, err)
		}
	}
}
