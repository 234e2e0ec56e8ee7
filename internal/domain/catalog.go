package domain

import (
	"context"
	"time"

	"github.com/arcrobot/admin_backend/internal/arrayfield"
)

// Catalog is a product card shown in the public catalog.
type Catalog struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Title        string            `json:"title"`
	Subtitle     string            `json:"subtitle"`
	Description  string            `json:"description"`
	Property     arrayfield.Object `json:"property"`
	Images       arrayfield.List   `json:"images"`
	OtherImages  arrayfield.List   `json:"other_images"`
	Price        float64           `json:"price"`
	IsDiscount   bool              `json:"isDiscount"`
	DeliveryDays int               `json:"delivery_days"`
	StorageDays  int               `json:"storage_days"`
	IsHome       bool              `json:"isHome"`
	OrderKey     int               `json:"order_key"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// CatalogRepository persists catalog entries.
type CatalogRepository interface {
	List(ctx context.Context, page Page) ([]Catalog, int, error)
	ListHome(ctx context.Context) ([]Catalog, error)
	GetByID(ctx context.Context, id int64) (*Catalog, error)
	Create(ctx context.Context, catalog *Catalog) error
	Update(ctx context.Context, catalog *Catalog) error
	SetHome(ctx context.Context, id int64, home bool) (*Catalog, error)
	Delete(ctx context.Context, id int64) error
}
