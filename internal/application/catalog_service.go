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

type CatalogService struct {
	repo     domain.CatalogRepository
	ranker   *ranking.Ranker
	uploader services.Uploader
	logger   *zap.Logger
}

func NewCatalogService(repo domain.CatalogRepository, ranker *ranking.Ranker, uploader services.Uploader, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, ranker: ranker, uploader: uploader, logger: logger}
}

// CatalogInput carries the catalog form fields as they arrive.
type CatalogInput struct {
	Name         string
	Title        string
	Subtitle     string
	Description  string
	Property     string
	Price        string
	IsDiscount   string
	DeliveryDays string
	StorageDays  string
	OrderKey     string
	// Images and OtherImages hold already uploaded URLs; nil means absent.
	Images      *string
	OtherImages *string
}

type CreateCatalogInput struct {
	CatalogInput
	Files      []*multipart.FileHeader
	OtherFiles []*multipart.FileHeader
}

type UpdateCatalogInput struct {
	CatalogInput
	UpdatedImages      []*multipart.FileHeader
	NewImages          []*multipart.FileHeader
	UpdatedOtherImages []*multipart.FileHeader
	NewOtherImages     []*multipart.FileHeader
}

func decodeOptional(raw *string, fallback []string) []string {
	if raw == nil {
		return fallback
	}
	return arrayfield.DecodeString(*raw)
}

func (s *CatalogService) List(ctx context.Context, page domain.Page) (domain.PageResult[domain.Catalog], error) {
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return domain.PageResult[domain.Catalog]{}, err
	}
	return domain.PageResult[domain.Catalog]{Data: items, Pagination: domain.NewPagination(total, page)}, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Catalog, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, in CreateCatalogInput) (*domain.Catalog, error) {
	if len(in.Files) == 0 && len(in.OtherFiles) == 0 {
		return nil, invalid("no files uploaded")
	}

	uploaded, err := uploadAll(ctx, s.uploader, in.Files)
	if err != nil {
		return nil, err
	}
	otherUploaded, err := uploadAll(ctx, s.uploader, in.OtherFiles)
	if err != nil {
		return nil, err
	}

	item := &domain.Catalog{
		Name:         in.Name,
		Title:        in.Title,
		Subtitle:     in.Subtitle,
		Description:  in.Description,
		Property:     arrayfield.DecodeObject(in.Property),
		Images:       append(decodeOptional(in.Images, []string{}), uploaded...),
		OtherImages:  append(decodeOptional(in.OtherImages, []string{}), otherUploaded...),
		Price:        pickFloat(in.Price, 0),
		IsDiscount:   pickBool(in.IsDiscount, false),
		DeliveryDays: pickInt(in.DeliveryDays, 0),
		StorageDays:  pickInt(in.StorageDays, 0),
	}
	placement := ranking.Placement{Desired: ranking.ParseRank(in.OrderKey)}
	_, err = s.ranker.ReorderAndSave(ctx, ranking.ScopeCatalog, placement, func(ctx context.Context, rank int) error {
		item.OrderKey = rank
		return s.repo.Create(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating catalog: %w", err)
	}

	s.logger.Info("catalog created", zap.Int64("id", item.ID), zap.Int("order_key", item.OrderKey))
	return item, nil
}

func (s *CatalogService) Update(ctx context.Context, id int64, in UpdateCatalogInput) (*domain.Catalog, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var uploads [4][]string
	for i, files := range [][]*multipart.FileHeader{in.UpdatedImages, in.NewImages, in.UpdatedOtherImages, in.NewOtherImages} {
		if uploads[i], err = uploadAll(ctx, s.uploader, files); err != nil {
			return nil, err
		}
	}
	item.Images = mergeImages(decodeOptional(in.Images, item.Images), uploads[0], uploads[1])
	item.OtherImages = mergeImages(decodeOptional(in.OtherImages, item.OtherImages), uploads[2], uploads[3])

	item.Name = pick(in.Name, item.Name)
	item.Title = pick(in.Title, item.Title)
	item.Subtitle = pick(in.Subtitle, item.Subtitle)
	item.Description = pick(in.Description, item.Description)
	if in.Property != "" {
		item.Property = arrayfield.DecodeObject(in.Property)
	}
	item.Price = pickFloat(in.Price, item.Price)
	item.IsDiscount = pickBool(in.IsDiscount, item.IsDiscount)
	item.DeliveryDays = pickInt(in.DeliveryDays, item.DeliveryDays)
	item.StorageDays = pickInt(in.StorageDays, item.StorageDays)

	placement := ranking.Placement{ID: item.ID, Desired: ranking.ParseRank(in.OrderKey)}
	_, err = s.ranker.ReorderAndSave(ctx, ranking.ScopeCatalog, placement, func(ctx context.Context, rank int) error {
		item.OrderKey = rank
		return s.repo.Update(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("error updating catalog %d: %w", id, err)
	}
	return item, nil
}

// Delete removes an entry. Remaining ranks are left as they are.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("catalog deleted", zap.Int64("id", id))
	return nil
}

func (s *CatalogService) ListHome(ctx context.Context) ([]domain.Catalog, error) {
	return s.repo.ListHome(ctx)
}

func (s *CatalogService) AddToHome(ctx context.Context, id int64) (*domain.Catalog, error) {
	if id < 1 {
		return nil, invalid("catalog id is required")
	}
	return s.repo.SetHome(ctx, id, true)
}

func (s *CatalogService) RemoveFromHome(ctx context.Context, id int64) (*domain.Catalog, error) {
	return s.repo.SetHome(ctx, id, false)
}
