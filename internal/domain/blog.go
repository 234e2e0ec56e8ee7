package domain

import (
	"context"
	"time"

	"github.com/arcrobot/admin_backend/internal/arrayfield"
)

// Blog is a blog post. OrderKey is its position in the blog listing.
type Blog struct {
	ID                int64           `json:"id"`
	Title             string          `json:"title"`
	Subtitles         string          `json:"subtitles"`
	Description       string          `json:"description"`
	Images            arrayfield.List `json:"images"`
	AuthorName        string          `json:"author_name"`
	AuthorDescription string          `json:"author_description"`
	AuthorImage       string          `json:"author_image"`
	AuthorPhone       string          `json:"author_phone"`
	OrderKey          int             `json:"order_key"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// BlogRepository persists blog posts.
type BlogRepository interface {
	List(ctx context.Context, page Page) ([]Blog, int, error)
	GetByID(ctx context.Context, id int64) (*Blog, error)
	Create(ctx context.Context, blog *Blog) error
	Update(ctx context.Context, blog *Blog) error
	Delete(ctx context.Context, id int64) error
}
