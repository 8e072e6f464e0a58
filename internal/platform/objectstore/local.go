package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localStore struct {
	dir     string
	baseURL string
}

// NewLocal builds a disk-backed store. The directory is created on first
// use and is expected to be served statically by the HTTP layer.
func NewLocal(cfg Config) (Store, error) {
	if cfg.Local == nil || cfg.Local.Dir == "" {
		return nil, fmt.Errorf("local storage directory required")
	}
	if err := os.MkdirAll(cfg.Local.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	baseURL := cfg.Local.BaseURL
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &localStore{
		dir:     cfg.Local.Dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *localStore) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	// Uploaded names are server-generated, but keep path traversal out
	// regardless.
	name = filepath.Base(name)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return s.baseURL + "/" + name, nil
}
