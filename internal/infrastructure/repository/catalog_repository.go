package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arcrobot/admin_backend/internal/domain"
)

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a catalog repository over the catalog table.
func NewCatalogRepository(db *sql.DB) domain.CatalogRepository {
	return &catalogRepository{db: db}
}

const catalogColumns = `
	id,
	COALESCE(name, ''),
	COALESCE(title, ''),
	COALESCE(subtitle, ''),
	COALESCE(description, ''),
	property,
	images,
	other_images,
	COALESCE(price, 0),
	COALESCE("isDiscount", false),
	COALESCE(delivery_days, 0),
	COALESCE(storage_days, 0),
	COALESCE("isHome", false),
	COALESCE(order_key, 0),
	"createdAt",
	"updatedAt"`

const catalogOrder = `ORDER BY order_key ASC NULLS LAST, "createdAt" DESC`

func scanCatalog(row scanner) (domain.Catalog, error) {
	var c domain.Catalog
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Title,
		&c.Subtitle,
		&c.Description,
		&c.Property,
		&c.Images,
		&c.OtherImages,
		&c.Price,
		&c.IsDiscount,
		&c.DeliveryDays,
		&c.StorageDays,
		&c.IsHome,
		&c.OrderKey,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *catalogRepository) queryCatalogs(ctx context.Context, query string, args ...any) ([]domain.Catalog, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying catalogs: %w", err)
	}
	defer rows.Close()

	catalogs := []domain.Catalog{}
	for rows.Next() {
		c, err := scanCatalog(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning catalog: %w", err)
		}
		catalogs = append(catalogs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalogs: %w", err)
	}
	return catalogs, nil
}

func (r *catalogRepository) List(ctx context.Context, page domain.Page) ([]domain.Catalog, int, error) {
	var total int
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting catalogs: %w", err)
	}
	catalogs, err := r.queryCatalogs(ctx,
		`SELECT`+catalogColumns+` FROM catalog `+catalogOrder+` LIMIT $1 OFFSET $2`,
		page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return catalogs, total, nil
}

func (r *catalogRepository) ListHome(ctx context.Context) ([]domain.Catalog, error) {
	return r.queryCatalogs(ctx, `SELECT`+catalogColumns+` FROM catalog WHERE "isHome" = true `+catalogOrder)
}

func (r *catalogRepository) GetByID(ctx context.Context, id int64) (*domain.Catalog, error) {
	c, err := scanCatalog(conn(ctx, r.db).QueryRowContext(ctx, `SELECT`+catalogColumns+` FROM catalog WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "catalog", id)
	}
	return &c, nil
}

func (r *catalogRepository) Create(ctx context.Context, c *domain.Catalog) error {
	query := `
		INSERT INTO catalog (
			name, title, subtitle, description, property, images, other_images,
			price, "isDiscount", delivery_days, storage_days, "isHome", order_key,
			"createdAt", "updatedAt"
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING id, "createdAt", "updatedAt"`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		c.Name, c.Title, c.Subtitle, c.Description, c.Property, c.Images, c.OtherImages,
		c.Price, c.IsDiscount, c.DeliveryDays, c.StorageDays, c.IsHome, c.OrderKey,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapWriteError(fmt.Errorf("error inserting catalog: %w", err))
	}
	return nil
}

func (r *catalogRepository) Update(ctx context.Context, c *domain.Catalog) error {
	query := `
		UPDATE catalog SET
			name = $1, title = $2, subtitle = $3, description = $4, property = $5,
			images = $6, other_images = $7, price = $8, "isDiscount" = $9,
			delivery_days = $10, storage_days = $11, order_key = $12, "updatedAt" = NOW()
		WHERE id = $13
		RETURNING "isHome", "updatedAt"`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		c.Name, c.Title, c.Subtitle, c.Description, c.Property,
		c.Images, c.OtherImages, c.Price, c.IsDiscount,
		c.DeliveryDays, c.StorageDays, c.OrderKey, c.ID,
	).Scan(&c.IsHome, &c.UpdatedAt)
	if err != nil {
		return mapWriteError(notFound(fmt.Errorf("error updating catalog: %w", err), "catalog", c.ID))
	}
	return nil
}

func (r *catalogRepository) SetHome(ctx context.Context, id int64, home bool) (*domain.Catalog, error) {
	query := `UPDATE catalog SET "isHome" = $1, "updatedAt" = NOW() WHERE id = $2 RETURNING` + catalogColumns
	c, err := scanCatalog(conn(ctx, r.db).QueryRowContext(ctx, query, home, id))
	if err != nil {
		return nil, notFound(fmt.Errorf("error updating catalog home flag: %w", err), "catalog", id)
	}
	return &c, nil
}

func (r *catalogRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM catalog WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting catalog: %w", err)
	}
	return checkAffected(result, "catalog", id)
}
