// Package services holds the adapters for external services the API
// depends on, starting with file storage for uploaded images.
package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader stores an uploaded file and returns the public URL it is served at.
type Uploader interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)
}

// objectName builds a collision-free name that keeps the original one
// readable: whitespace is dropped and path components are ignored.
func objectName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	base = strings.Join(strings.Fields(strings.ToValidUTF8(base, "")), "")
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return uuid.NewString() + "_" + base
}

// DiskStorage writes uploads to a local directory served statically.
type DiskStorage struct {
	dir     string
	baseURL string
}

// NewDiskStorage creates dir if needed.
func NewDiskStorage(dir, baseURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &DiskStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the directory files are written to.
func (d *DiskStorage) Dir() string {
	return d.dir
}

func (d *DiskStorage) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	name := objectName(fileHeader.Filename)
	dst, err := os.OpenFile(filepath.Join(d.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return d.baseURL + "/" + name, nil
}
