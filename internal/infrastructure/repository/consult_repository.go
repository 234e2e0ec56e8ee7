package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arcrobot/admin_backend/internal/domain"
)

type consultRepository struct {
	db *sql.DB
}

// NewConsultRepository creates a repository over the orders table, where
// consultation requests are kept.
func NewConsultRepository(db *sql.DB) domain.ConsultRepository {
	return &consultRepository{db: db}
}

func (r *consultRepository) List(ctx context.Context) ([]domain.Consult, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(phone_number, ''), COALESCE(email, ''), COALESCE(reason, ''), "createdAt"
		FROM orders
		ORDER BY "createdAt" DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying consults: %w", err)
	}
	defer rows.Close()

	consults := []domain.Consult{}
	for rows.Next() {
		var c domain.Consult
		if err := rows.Scan(&c.ID, &c.Name, &c.PhoneNumber, &c.Email, &c.Reason, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning consult: %w", err)
		}
		consults = append(consults, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consults: %w", err)
	}
	return consults, nil
}

func (r *consultRepository) GetByID(ctx context.Context, id int64) (*domain.Consult, error) {
	var c domain.Consult
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(phone_number, ''), COALESCE(email, ''), COALESCE(reason, ''), "createdAt"
		FROM orders
		WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.PhoneNumber, &c.Email, &c.Reason, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "consult", id)
	}
	return &c, nil
}

func (r *consultRepository) Create(ctx context.Context, c *domain.Consult) error {
	query := `
		INSERT INTO orders (name, phone_number, email, reason, "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, "createdAt"`
	if err := conn(ctx, r.db).QueryRowContext(ctx, query, c.Name, c.PhoneNumber, c.Email, c.Reason).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("error inserting consult: %w", err)
	}
	return nil
}
