package application

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/arcrobot/admin_backend/internal/domain"
	services "github.com/arcrobot/admin_backend/internal/service"
)

type ImagePositionService struct {
	repo     domain.ImagePositionRepository
	catalogs domain.CatalogRepository
	uploader services.Uploader
}

func NewImagePositionService(repo domain.ImagePositionRepository, catalogs domain.CatalogRepository, uploader services.Uploader) *ImagePositionService {
	return &ImagePositionService{repo: repo, catalogs: catalogs, uploader: uploader}
}

type ImagePositionInput struct {
	CatalogID   string
	ImageURL    string
	Title       string
	Top         string
	LeftPos     string
	Description string
	Image       *multipart.FileHeader
}

// Create pins a hotspot on one image of an existing catalog entry.
func (s *ImagePositionService) Create(ctx context.Context, in ImagePositionInput) (*domain.ImagePosition, error) {
	imageURL := strings.TrimSpace(in.ImageURL)
	if strings.TrimSpace(in.CatalogID) == "" || imageURL == "" {
		return nil, invalid("catalog_id and image_url are required")
	}
	catalogID, err := strconv.ParseInt(strings.TrimSpace(in.CatalogID), 10, 64)
	if err != nil || catalogID < 1 {
		return nil, invalid("catalog_id must be a positive integer")
	}
	if _, err := s.catalogs.GetByID(ctx, catalogID); err != nil {
		return nil, err
	}

	image, err := uploadOne(ctx, s.uploader, in.Image)
	if err != nil {
		return nil, err
	}
	position := &domain.ImagePosition{
		CatalogID:   catalogID,
		ImageURL:    imageURL,
		Title:       in.Title,
		Top:         in.Top,
		LeftPos:     in.LeftPos,
		Description: in.Description,
		Image:       image,
	}
	if err := s.repo.Create(ctx, position); err != nil {
		return nil, err
	}
	return position, nil
}

// ListByImageURL returns the hotspots of one image, ErrNotFound when none.
func (s *ImagePositionService) ListByImageURL(ctx context.Context, imageURL string) ([]domain.ImagePosition, error) {
	positions, err := s.repo.ListByImageURL(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no positions for image %s", domain.ErrNotFound, imageURL)
	}
	return positions, nil
}
