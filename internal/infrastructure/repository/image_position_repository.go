package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arcrobot/admin_backend/internal/domain"
)

type imagePositionRepository struct {
	db *sql.DB
}

func NewImagePositionRepository(db *sql.DB) domain.ImagePositionRepository {
	return &imagePositionRepository{db: db}
}

func (r *imagePositionRepository) Create(ctx context.Context, p *domain.ImagePosition) error {
	query := `
		INSERT INTO "imagePosition" (catalog_id, image_url, title, top, left_pos, description, image, "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, "createdAt", "updatedAt"`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		p.CatalogID, p.ImageURL, p.Title, p.Top, p.LeftPos, p.Description, p.Image,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting image position: %w", err)
	}
	return nil
}

func (r *imagePositionRepository) ListByImageURL(ctx context.Context, imageURL string) ([]domain.ImagePosition, error) {
	query := `
		SELECT
			id,
			COALESCE(catalog_id, 0),
			COALESCE(image_url, ''),
			COALESCE(title, ''),
			COALESCE(top, ''),
			COALESCE(left_pos, ''),
			COALESCE(description, ''),
			COALESCE(image, ''),
			"createdAt",
			"updatedAt"
		FROM "imagePosition"
		WHERE image_url = $1
		ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, imageURL)
	if err != nil {
		return nil, fmt.Errorf("error querying image positions: %w", err)
	}
	defer rows.Close()

	positions := []domain.ImagePosition{}
	for rows.Next() {
		var p domain.ImagePosition
		err := rows.Scan(&p.ID, &p.CatalogID, &p.ImageURL, &p.Title, &p.Top, &p.LeftPos, &p.Description, &p.Image, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning image position: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image positions: %w", err)
	}
	return positions, nil
}
