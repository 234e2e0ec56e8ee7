package domain

import (
	"context"
	"time"
)

// Consult is a consultation request left through the public contact form.
type Consult struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

type ConsultRepository interface {
	List(ctx context.Context) ([]Consult, error)
	GetByID(ctx context.Context, id int64) (*Consult, error)
	Create(ctx context.Context, consult *Consult) error
}
