package application

import (
	"context"
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/arcrobot/admin_backend/internal/arrayfield"
	"github.com/arcrobot/admin_backend/internal/domain"
	"github.com/arcrobot/admin_backend/internal/ranking"
	services "github.com/arcrobot/admin_backend/internal/service"
)

// MaxBlogFiles caps the images accepted with one blog post.
const MaxBlogFiles = 10

type BlogService struct {
	repo     domain.BlogRepository
	ranker   *ranking.Ranker
	uploader services.Uploader
	logger   *zap.Logger
}

func NewBlogService(repo domain.BlogRepository, ranker *ranking.Ranker, uploader services.Uploader, logger *zap.Logger) *BlogService {
	return &BlogService{repo: repo, ranker: ranker, uploader: uploader, logger: logger}
}

// BlogInput carries the text fields of a blog form.
type BlogInput struct {
	Title             string
	Subtitles         string
	Description       string
	AuthorName        string
	AuthorDescription string
	AuthorPhone       string
	OrderKey          string
}

type CreateBlogInput struct {
	BlogInput
	Files       []*multipart.FileHeader
	AuthorImage *multipart.FileHeader
}

type UpdateBlogInput struct {
	BlogInput
	// Images is the client's current list; nil keeps the stored one.
	Images         *string
	AuthorOldImage string
	UpdatedImages  []*multipart.FileHeader
	NewImages      []*multipart.FileHeader
	AuthorImage    *multipart.FileHeader
}

func (s *BlogService) List(ctx context.Context, page domain.Page) (domain.PageResult[domain.Blog], error) {
	blogs, total, err := s.repo.List(ctx, page)
	if err != nil {
		return domain.PageResult[domain.Blog]{}, err
	}
	return domain.PageResult[domain.Blog]{Data: blogs, Pagination: domain.NewPagination(total, page)}, nil
}

func (s *BlogService) Get(ctx context.Context, id int64) (*domain.Blog, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BlogService) Create(ctx context.Context, in CreateBlogInput) (*domain.Blog, error) {
	if len(in.Files) == 0 {
		return nil, invalid("no files uploaded")
	}
	if len(in.Files) > MaxBlogFiles {
		return nil, invalid("at most %d files are allowed", MaxBlogFiles)
	}

	images, err := uploadAll(ctx, s.uploader, in.Files)
	if err != nil {
		return nil, err
	}
	authorImage, err := uploadOne(ctx, s.uploader, in.AuthorImage)
	if err != nil {
		return nil, err
	}

	blog := &domain.Blog{
		Title:             in.Title,
		Subtitles:         in.Subtitles,
		Description:       in.Description,
		Images:            images,
		AuthorName:        in.AuthorName,
		AuthorDescription: in.AuthorDescription,
		AuthorImage:       authorImage,
		AuthorPhone:       in.AuthorPhone,
	}
	placement := ranking.Placement{Desired: ranking.ParseRank(in.OrderKey)}
	_, err = s.ranker.ReorderAndSave(ctx, ranking.ScopeBlog, placement, func(ctx context.Context, rank int) error {
		blog.OrderKey = rank
		return s.repo.Create(ctx, blog)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating blog: %w", err)
	}

	s.logger.Info("blog created", zap.Int64("id", blog.ID), zap.Int("order_key", blog.OrderKey))
	return blog, nil
}

func (s *BlogService) Update(ctx context.Context, id int64, in UpdateBlogInput) (*domain.Blog, error) {
	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	replaced, err := uploadAll(ctx, s.uploader, in.UpdatedImages)
	if err != nil {
		return nil, err
	}
	added, err := uploadAll(ctx, s.uploader, in.NewImages)
	if err != nil {
		return nil, err
	}
	authorImage, err := uploadOne(ctx, s.uploader, in.AuthorImage)
	if err != nil {
		return nil, err
	}

	images := []string(blog.Images)
	if in.Images != nil {
		images = arrayfield.DecodeString(*in.Images)
	}
	blog.Images = mergeImages(images, replaced, added)

	blog.Title = pick(in.Title, blog.Title)
	blog.Subtitles = pick(in.Subtitles, blog.Subtitles)
	blog.Description = pick(in.Description, blog.Description)
	blog.AuthorName = pick(in.AuthorName, blog.AuthorName)
	blog.AuthorDescription = pick(in.AuthorDescription, blog.AuthorDescription)
	blog.AuthorPhone = pick(in.AuthorPhone, blog.AuthorPhone)
	switch {
	case authorImage != "":
		blog.AuthorImage = authorImage
	case in.AuthorOldImage != "":
		blog.AuthorImage = unquote(in.AuthorOldImage)
	}

	placement := ranking.Placement{ID: blog.ID, Desired: ranking.ParseRank(in.OrderKey)}
	_, err = s.ranker.ReorderAndSave(ctx, ranking.ScopeBlog, placement, func(ctx context.Context, rank int) error {
		blog.OrderKey = rank
		return s.repo.Update(ctx, blog)
	})
	if err != nil {
		return nil, fmt.Errorf("error updating blog %d: %w", id, err)
	}
	return blog, nil
}

// Delete removes a post. Remaining ranks are left as they are.
func (s *BlogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("blog deleted", zap.Int64("id", id))
	return nil
}
