package domain

import (
	"errors"

	"github.com/arcrobot/admin_backend/internal/ranking"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for requests that fail validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRankConflict is returned when a write would leave two rows of a
	// ranked collection on the same order_key.
	ErrRankConflict = ranking.ErrRankConflict
)
