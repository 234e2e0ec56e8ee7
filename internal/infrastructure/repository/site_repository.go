package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arcrobot/admin_backend/internal/domain"
)

type siteRepository struct {
	db *sql.DB
}

func NewSiteRepository(db *sql.DB) domain.SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) List(ctx context.Context, page domain.Page) ([]domain.Site, int, error) {
	var total int
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM sites`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting sites: %w", err)
	}

	query := `
		SELECT id, COALESCE(name, ''), COALESCE(link, ''), "createdAt", "updatedAt"
		FROM sites
		ORDER BY "createdAt" DESC
		LIMIT $1 OFFSET $2`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("error querying sites: %w", err)
	}
	defer rows.Close()

	sites := []domain.Site{}
	for rows.Next() {
		var s domain.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.Link, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning site: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating sites: %w", err)
	}
	return sites, total, nil
}

func (r *siteRepository) GetByID(ctx context.Context, id int64) (*domain.Site, error) {
	var s domain.Site
	query := `SELECT id, COALESCE(name, ''), COALESCE(link, ''), "createdAt", "updatedAt" FROM sites WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Link, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "site", id)
	}
	return &s, nil
}

func (r *siteRepository) Update(ctx context.Context, s *domain.Site) error {
	query := `UPDATE sites SET name = $1, link = $2, "updatedAt" = NOW() WHERE id = $3 RETURNING "updatedAt"`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, s.Name, s.Link, s.ID).Scan(&s.UpdatedAt)
	if err != nil {
		return notFound(fmt.Errorf("error updating site: %w", err), "site", s.ID)
	}
	return nil
}
