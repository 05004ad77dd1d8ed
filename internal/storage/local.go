package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalDriver writes photos to disk and serves them under /uploads/. Meant
// for development; production uses the S3 driver.
type LocalDriver struct {
	basePath string
	baseURL  string
}

func NewLocalDriver(basePath, baseURL string) *LocalDriver {
	if baseURL == "" {
		baseURL = "/uploads/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalDriver{basePath: basePath, baseURL: baseURL}
}

func (d *LocalDriver) Upload(ctx context.Context, file io.Reader, key, contentType string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("storage: invalid key %s", key)
	}

	fullPath := filepath.Join(d.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", key, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}
	return d.baseURL + key, nil
}

func (d *LocalDriver) Delete(ctx context.Context, url string) error {
	key, ok := d.keyFromURL(url)
	if !ok {
		return fmt.Errorf("storage: url %s not owned by local storage", url)
	}
	err := os.Remove(filepath.Join(d.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (d *LocalDriver) Owns(url string) bool {
	_, ok := d.keyFromURL(url)
	return ok
}

func (d *LocalDriver) keyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, d.baseURL) {
		return "", false
	}
	key := strings.TrimPrefix(url, d.baseURL)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
