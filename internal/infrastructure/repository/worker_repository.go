package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arcrobot/admin_backend/internal/domain"
)

type workerRepository struct {
	db *sql.DB
}

func NewWorkerRepository(db *sql.DB) domain.WorkerRepository {
	return &workerRepository{db: db}
}

const workerColumns = `id, COALESCE(name, ''), COALESCE(description, ''), COALESCE(worker_type, ''), COALESCE(image, ''), "createdAt", "updatedAt"`

func scanWorker(row scanner) (domain.Worker, error) {
	var w domain.Worker
	err := row.Scan(&w.ID, &w.Name, &w.Description, &w.WorkerType, &w.Image, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *workerRepository) List(ctx context.Context, page domain.Page) ([]domain.Worker, int, error) {
	var total int
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM worker`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting workers: %w", err)
	}

	query := `SELECT ` + workerColumns + ` FROM worker ORDER BY "createdAt" DESC LIMIT $1 OFFSET $2`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("error querying workers: %w", err)
	}
	defer rows.Close()

	workers := []domain.Worker{}
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning worker: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating workers: %w", err)
	}
	return workers, total, nil
}

func (r *workerRepository) GetByID(ctx context.Context, id int64) (*domain.Worker, error) {
	w, err := scanWorker(conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+workerColumns+` FROM worker WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "worker", id)
	}
	return &w, nil
}

func (r *workerRepository) Create(ctx context.Context, w *domain.Worker) error {
	query := `
		INSERT INTO worker (name, description, worker_type, image, "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, "createdAt", "updatedAt"`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, w.Name, w.Description, w.WorkerType, w.Image).
		Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting worker: %w", err)
	}
	return nil
}

func (r *workerRepository) Update(ctx context.Context, w *domain.Worker) error {
	query := `
		UPDATE worker SET name = $1, description = $2, worker_type = $3, image = $4, "updatedAt" = NOW()
		WHERE id = $5
		RETURNING "createdAt", "updatedAt"`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, w.Name, w.Description, w.WorkerType, w.Image, w.ID).
		Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return notFound(fmt.Errorf("error updating worker: %w", err), "worker", w.ID)
	}
	return nil
}

func (r *workerRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM worker WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting worker: %w", err)
	}
	return checkAffected(result, "worker", id)
}
