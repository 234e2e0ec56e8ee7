package domain

import (
	"context"
	"time"
)

// Worker is a team member shown on the about page.
type Worker struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	WorkerType  string    `json:"worker_type"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type WorkerRepository interface {
	List(ctx context.Context, page Page) ([]Worker, int, error)
	GetByID(ctx context.Context, id int64) (*Worker, error)
	Create(ctx context.Context, worker *Worker) error
	Update(ctx context.Context, worker *Worker) error
	Delete(ctx context.Context, id int64) error
}
