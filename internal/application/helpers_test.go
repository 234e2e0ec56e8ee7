package application

import (
	"errors"
	"mime/multipart"
)

var errBoom = errors.New("boom")

func files(names ...string) []*multipart.FileHeader {
	out := make([]*multipart.FileHeader, len(names))
	for i, n := range names {
		out[i] = &multipart.FileHeader{Filename: n}
	}
	return out
}

func strPtr(s string) *string { return &s }
