package domain

import (
	"context"
	"time"
)

// Site is a link to one of the company's sites.
type Site struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SiteRepository interface {
	List(ctx context.Context, page Page) ([]Site, int, error)
	GetByID(ctx context.Context, id int64) (*Site, error)
	Update(ctx context.Context, site *Site) error
}
