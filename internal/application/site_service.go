package application

import (
	"context"

	"github.com/arcrobot/admin_backend/internal/domain"
)

type SiteService struct {
	repo domain.SiteRepository
}

func NewSiteService(repo domain.SiteRepository) *SiteService {
	return &SiteService{repo: repo}
}

func (s *SiteService) List(ctx context.Context, page domain.Page) (domain.PageResult[domain.Site], error) {
	sites, total, err := s.repo.List(ctx, page)
	if err != nil {
		return domain.PageResult[domain.Site]{}, err
	}
	return domain.PageResult[domain.Site]{Data: sites, Pagination: domain.NewPagination(total, page)}, nil
}

func (s *SiteService) Get(ctx context.Context, id int64) (*domain.Site, error) {
	return s.repo.GetByID(ctx, id)
}

// Update changes name and link; blank values keep what is stored.
func (s *SiteService) Update(ctx context.Context, id int64, name, link string) (*domain.Site, error) {
	site, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	site.Name = pick(name, site.Name)
	site.Link = pick(link, site.Link)
	if err := s.repo.Update(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}
