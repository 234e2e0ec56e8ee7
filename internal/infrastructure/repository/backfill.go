package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/arcrobot/admin_backend/internal/arrayfield"
)

// imageColumns are the list columns that were written with several
// encodings over time.
var imageColumns = []struct {
	Table  string
	Column string
}{
	{"blog", "images"},
	{"catalog", "images"},
	{"catalog", "other_images"},
}

// BackfillResult counts the rows rewritten in one column.
type BackfillResult struct {
	Table     string `json:"table"`
	Column    string `json:"column"`
	Scanned   int    `json:"scanned"`
	Rewritten int    `json:"rewritten"`
}

// BackfillImageLists rewrites every image list column into the JSON array
// encoding. Rows already in canonical form are left alone.
func BackfillImageLists(ctx context.Context, db *sql.DB, tx *TxManager, logger *zap.Logger) ([]BackfillResult, error) {
	results := make([]BackfillResult, 0, len(imageColumns))
	for _, col := range imageColumns {
		res := BackfillResult{Table: col.Table, Column: col.Column}
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			return backfillColumn(ctx, conn(ctx, db), &res)
		})
		if err != nil {
			return results, err
		}
		logger.Info("image list backfill",
			zap.String("table", res.Table),
			zap.String("column", res.Column),
			zap.Int("scanned", res.Scanned),
			zap.Int("rewritten", res.Rewritten))
		results = append(results, res)
	}
	return results, nil
}

func backfillColumn(ctx context.Context, ex execer, res *BackfillResult) error {
	type row struct {
		id  int64
		raw sql.NullString
	}

	query := fmt.Sprintf(`SELECT id, %s FROM %s ORDER BY id FOR UPDATE`, res.Column, res.Table)
	rows, err := ex.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error querying %s.%s: %w", res.Table, res.Column, err)
	}
	var pending []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.raw); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning %s.%s: %w", res.Table, res.Column, err)
		}
		pending = append(pending, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s.%s: %w", res.Table, res.Column, err)
	}

	update := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, res.Table, res.Column)
	for _, r := range pending {
		res.Scanned++
		canonical, changed := canonicalImageList(r.raw)
		if !changed {
			continue
		}
		if _, err := ex.ExecContext(ctx, update, canonical, r.id); err != nil {
			return fmt.Errorf("error rewriting %s.%s id=%d: %w", res.Table, res.Column, r.id, err)
		}
		res.Rewritten++
	}
	return nil
}

// canonicalImageList returns the JSON encoding of raw and whether it differs
// from what is stored. NULL is rewritten to [].
func canonicalImageList(raw sql.NullString) (string, bool) {
	canonical := arrayfield.Encode(arrayfield.Decode(raw))
	return canonical, !raw.Valid || raw.String != canonical
}
