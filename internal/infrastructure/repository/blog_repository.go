package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arcrobot/admin_backend/internal/domain"
)

type blogRepository struct {
	db *sql.DB
}

// NewBlogRepository creates a blog repository over the blog table.
func NewBlogRepository(db *sql.DB) domain.BlogRepository {
	return &blogRepository{db: db}
}

const blogColumns = `
	id,
	COALESCE(title, ''),
	COALESCE(subtitles, ''),
	COALESCE(description, ''),
	images,
	COALESCE(author_name, ''),
	COALESCE(author_description, ''),
	COALESCE(author_image, ''),
	COALESCE(author_phone, ''),
	COALESCE(order_key, 0),
	"createdAt",
	"updatedAt"`

func scanBlog(row scanner) (domain.Blog, error) {
	var b domain.Blog
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Subtitles,
		&b.Description,
		&b.Images,
		&b.AuthorName,
		&b.AuthorDescription,
		&b.AuthorImage,
		&b.AuthorPhone,
		&b.OrderKey,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func (r *blogRepository) List(ctx context.Context, page domain.Page) ([]domain.Blog, int, error) {
	var total int
	if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM blog`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting blogs: %w", err)
	}

	query := `SELECT` + blogColumns + `
		FROM blog
		ORDER BY order_key ASC NULLS LAST, "createdAt" DESC
		LIMIT $1 OFFSET $2`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("error querying blogs: %w", err)
	}
	defer rows.Close()

	blogs := []domain.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning blog: %w", err)
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating blogs: %w", err)
	}
	return blogs, total, nil
}

func (r *blogRepository) GetByID(ctx context.Context, id int64) (*domain.Blog, error) {
	query := `SELECT` + blogColumns + ` FROM blog WHERE id = $1`
	b, err := scanBlog(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "blog", id)
	}
	return &b, nil
}

func (r *blogRepository) Create(ctx context.Context, b *domain.Blog) error {
	query := `
		INSERT INTO blog (
			title, subtitles, description, images,
			author_name, author_description, author_image, author_phone,
			order_key, "createdAt", "updatedAt"
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, "createdAt", "updatedAt"`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		b.Title, b.Subtitles, b.Description, b.Images,
		b.AuthorName, b.AuthorDescription, b.AuthorImage, b.AuthorPhone,
		b.OrderKey,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return mapWriteError(fmt.Errorf("error inserting blog: %w", err))
	}
	return nil
}

func (r *blogRepository) Update(ctx context.Context, b *domain.Blog) error {
	query := `
		UPDATE blog SET
			title = $1, subtitles = $2, description = $3, images = $4,
			author_name = $5, author_description = $6, author_image = $7, author_phone = $8,
			order_key = $9, "updatedAt" = NOW()
		WHERE id = $10
		RETURNING "updatedAt"`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		b.Title, b.Subtitles, b.Description, b.Images,
		b.AuthorName, b.AuthorDescription, b.AuthorImage, b.AuthorPhone,
		b.OrderKey, b.ID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		return mapWriteError(notFound(fmt.Errorf("error updating blog: %w", err), "blog", b.ID))
	}
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id int64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM blog WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting blog: %w", err)
	}
	return checkAffected(result, "blog", id)
}
