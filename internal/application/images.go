package application

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/arcrobot/admin_backend/internal/domain"
	services "github.com/arcrobot/admin_backend/internal/service"
)

// uploadAll stores every file in order and returns their URLs.
func uploadAll(ctx context.Context, uploader services.Uploader, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh == nil {
			continue
		}
		url, err := uploader.Upload(ctx, fh)
		if err != nil {
			return nil, fmt.Errorf("error uploading %s: %w", fh.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// uploadOne stores fh when present; otherwise it returns "".
func uploadOne(ctx context.Context, uploader services.Uploader, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	url, err := uploader.Upload(ctx, fh)
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", fh.Filename, err)
	}
	return url, nil
}

// mergeImages writes replacements[i] over images[i], appending those past
// the end, then appends the new URLs.
func mergeImages(images, replacements, appended []string) []string {
	out := make([]string, len(images), len(images)+len(replacements)+len(appended))
	copy(out, images)
	for i, url := range replacements {
		if i < len(out) {
			out[i] = url
		} else {
			out = append(out, url)
		}
	}
	return append(out, appended...)
}

// unquote accepts a value that may arrive JSON-encoded ("\"http://x\"").
func unquote(raw string) string {
	raw = strings.TrimSpace(raw)
	var s string
	if strings.HasPrefix(raw, `"`) && json.Unmarshal([]byte(raw), &s) == nil {
		return s
	}
	return raw
}

// pick returns value unless it is blank.
func pick(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func pickFloat(raw string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return f
}

func pickInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}

func pickBool(raw string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		if strings.EqualFold(strings.TrimSpace(raw), "on") {
			return true
		}
		return fallback
	}
	return b
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}
