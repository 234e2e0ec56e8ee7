package ranking

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Policy decides what happens to ranks beyond the end of the collection.
type Policy string

const (
	// PolicyClamp pulls out-of-range ranks back to the nearest valid one.
	PolicyClamp Policy = "clamp"
	// PolicyLegacy accepts any positive rank, leaving gaps past the end.
	PolicyLegacy Policy = "legacy"
)

// ParsePolicy maps a config value to a Policy; empty means clamp.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyClamp:
		return PolicyClamp, nil
	case PolicyLegacy:
		return PolicyLegacy, nil
	}
	return "", fmt.Errorf("unknown rank policy %q", s)
}

// ParseRank reads an order_key form value. Blank, non-numeric and
// non-positive values mean "no explicit rank".
func ParseRank(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return nil
	}
	return &n
}

// Placement describes where a row should end up.
type Placement struct {
	// ID of an existing row, 0 for a row about to be inserted. The row's
	// current rank is read under the scope lock.
	ID int64
	// Desired rank, nil to append a new row or keep an existing one.
	Desired *int
}

// Ranker assigns and rebalances ranks. It holds no per-collection state.
type Ranker struct {
	store  Store
	tx     Transactor
	policy Policy
	logger *zap.Logger
}

// NewRanker creates a Ranker over store.
func NewRanker(store Store, tx Transactor, policy Policy, logger *zap.Logger) *Ranker {
	if policy == "" {
		policy = PolicyClamp
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{store: store, tx: tx, policy: policy, logger: logger}
}

// AssignRank returns the rank a new row should take. A nil desired rank
// appends after the current maximum; otherwise every row at or after the
// desired rank moves back by one to open a slot.
func (r *Ranker) AssignRank(ctx context.Context, scope Scope, desired *int) (int, error) {
	last, err := r.store.MaxRank(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("error reading max rank of %s: %w", scope, err)
	}
	if desired == nil || *desired < 1 {
		return last + 1, nil
	}

	rank := *desired
	if r.policy == PolicyClamp && rank > last+1 {
		rank = last + 1
	}
	if rank <= last {
		if err := r.store.ShiftRanks(ctx, scope, Span{Min: rank}, 1, 0); err != nil {
			return 0, fmt.Errorf("error opening rank %d in %s: %w", rank, scope, err)
		}
		r.logger.Debug("opened rank slot", zap.String("scope", string(scope)), zap.Int("rank", rank))
	}
	return rank, nil
}

// MoveRank shifts the neighbours of row id so it can move from current to
// next, and returns the rank the row must be written with. The row itself
// is never shifted.
func (r *Ranker) MoveRank(ctx context.Context, scope Scope, id int64, current, next int) (int, error) {
	if next < 1 {
		next = 1
	}
	if r.policy == PolicyClamp {
		last, err := r.store.MaxRank(ctx, scope)
		if err != nil {
			return 0, fmt.Errorf("error reading max rank of %s: %w", scope, err)
		}
		if last > 0 && next > last {
			next = last
		}
	}

	switch {
	case next == current:
		return current, nil
	case next < current:
		err := r.store.ShiftRanks(ctx, scope, Span{Min: next, Max: current - 1}, 1, id)
		if err != nil {
			return 0, fmt.Errorf("error moving %s/%d forward: %w", scope, id, err)
		}
	default:
		err := r.store.ShiftRanks(ctx, scope, Span{Min: current + 1, Max: next}, -1, id)
		if err != nil {
			return 0, fmt.Errorf("error moving %s/%d backward: %w", scope, id, err)
		}
	}
	r.logger.Debug("moved rank",
		zap.String("scope", string(scope)),
		zap.Int64("id", id),
		zap.Int("from", current),
		zap.Int("to", next))
	return next, nil
}

// ReorderAndSave places a row and persists it in one transaction. save
// receives the final rank and must write the row through ctx. When the
// write leaves duplicate ranks behind, the transaction is rolled back and
// ErrRankConflict is returned.
func (r *Ranker) ReorderAndSave(ctx context.Context, scope Scope, p Placement, save func(ctx context.Context, rank int) error) (int, error) {
	var final int
	err := r.tx.InScope(ctx, scope, func(ctx context.Context) error {
		rank, err := r.place(ctx, scope, p)
		if err != nil {
			return err
		}
		if err := save(ctx, rank); err != nil {
			return err
		}

		dups, err := r.store.DuplicateRanks(ctx, scope)
		if err != nil {
			return fmt.Errorf("error checking ranks of %s: %w", scope, err)
		}
		if len(dups) > 0 {
			r.logger.Warn("duplicate ranks after write",
				zap.String("scope", string(scope)),
				zap.Ints("ranks", dups))
			return fmt.Errorf("%w: %s has duplicate ranks %v", ErrRankConflict, scope, dups)
		}
		final = rank
		return nil
	})
	if err != nil {
		return 0, err
	}
	return final, nil
}

func (r *Ranker) place(ctx context.Context, scope Scope, p Placement) (int, error) {
	if p.ID == 0 {
		return r.AssignRank(ctx, scope, p.Desired)
	}
	current, err := r.store.CurrentRank(ctx, scope, p.ID)
	if err != nil {
		return 0, fmt.Errorf("error reading rank of %s/%d: %w", scope, p.ID, err)
	}
	switch {
	case current < 1:
		// rows stored before ranking existed are inserted
		return r.AssignRank(ctx, scope, p.Desired)
	case p.Desired == nil:
		return current, nil
	default:
		return r.MoveRank(ctx, scope, p.ID, current, *p.Desired)
	}
}

// Report is the result of auditing one scope.
type Report struct {
	Scope      Scope `json:"scope"`
	Count      int   `json:"count"`
	Duplicates []int `json:"duplicates"`
	Gaps       []int `json:"gaps"`
}

// Dense reports whether the scope holds exactly 1..Count.
func (rep Report) Dense() bool {
	return len(rep.Duplicates) == 0 && len(rep.Gaps) == 0
}

// Audit inspects a scope for duplicate and missing ranks.
func (r *Ranker) Audit(ctx context.Context, scope Scope) (Report, error) {
	ranks, err := r.store.Ranks(ctx, scope)
	if err != nil {
		return Report{}, fmt.Errorf("error reading ranks of %s: %w", scope, err)
	}
	rep := Report{Scope: scope, Count: len(ranks), Duplicates: []int{}, Gaps: []int{}}

	seen := make(map[int]int, len(ranks))
	last := 0
	for _, rank := range ranks {
		seen[rank]++
		if seen[rank] == 2 {
			rep.Duplicates = append(rep.Duplicates, rank)
		}
		if rank > last {
			last = rank
		}
	}
	for rank := 1; rank <= last; rank++ {
		if seen[rank] == 0 {
			rep.Gaps = append(rep.Gaps, rank)
		}
	}
	return rep, nil
}
