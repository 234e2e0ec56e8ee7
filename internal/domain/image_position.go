package domain

import (
	"context"
	"time"
)

// ImagePosition is a hotspot placed on a catalog image. Top and LeftPos
// are CSS offsets as the dashboard sends them.
type ImagePosition struct {
	ID          int64     `json:"id"`
	CatalogID   int64     `json:"catalog_id"`
	ImageURL    string    `json:"image_url"`
	Title       string    `json:"title"`
	Top         string    `json:"top"`
	LeftPos     string    `json:"left_pos"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ImagePositionRepository interface {
	Create(ctx context.Context, position *ImagePosition) error
	ListByImageURL(ctx context.Context, imageURL string) ([]ImagePosition, error)
}
