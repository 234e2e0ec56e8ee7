// Package ranking keeps a dense 1..N integer order over the rows of a
// collection (blog posts, catalog entries) the way a drag-and-drop list
// expects: inserting at position K or moving a row to K shifts its
// neighbours so every rank stays unique.
package ranking

import (
	"context"
	"errors"
)

// Scope names a set of rows sharing one rank space.
type Scope string

const (
	ScopeBlog    Scope = "blog"
	ScopeCatalog Scope = "catalog"
)

// ErrRankConflict reports that a write left two rows with the same rank.
var ErrRankConflict = errors.New("rank conflict")

// Span is an inclusive rank interval. A zero Max leaves it open-ended.
type Span struct {
	Min int
	Max int
}

// Contains reports whether rank falls inside the span.
func (s Span) Contains(rank int) bool {
	return rank >= s.Min && (s.Max == 0 || rank <= s.Max)
}

// Store is the storage side of a ranked collection. Implementations must
// honour a transaction carried by ctx.
type Store interface {
	// CurrentRank returns the rank of row id and locks the row until the
	// transaction ends; 0 when the row has no rank yet.
	CurrentRank(ctx context.Context, scope Scope, id int64) (int, error)
	// MaxRank returns the highest rank in scope, 0 when empty.
	MaxRank(ctx context.Context, scope Scope) (int, error)
	// ShiftRanks adds delta to the rank of every row in span except exclude.
	ShiftRanks(ctx context.Context, scope Scope, span Span, delta int, exclude int64) error
	// DuplicateRanks lists ranks held by more than one row.
	DuplicateRanks(ctx context.Context, scope Scope) ([]int, error)
	// Ranks lists every assigned rank in ascending order.
	Ranks(ctx context.Context, scope Scope) ([]int, error)
}

// Transactor runs fn inside one transaction that holds the scope's rank
// lock. The ctx passed to fn carries the transaction.
type Transactor interface {
	InScope(ctx context.Context, scope Scope, fn func(ctx context.Context) error) error
}
