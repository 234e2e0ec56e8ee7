package application

import (
	"context"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/arcrobot/admin_backend/internal/domain"
	services "github.com/arcrobot/admin_backend/internal/service"
)

type WorkerService struct {
	repo     domain.WorkerRepository
	uploader services.Uploader
	logger   *zap.Logger
}

func NewWorkerService(repo domain.WorkerRepository, uploader services.Uploader, logger *zap.Logger) *WorkerService {
	return &WorkerService{repo: repo, uploader: uploader, logger: logger}
}

type WorkerInput struct {
	Name        string
	Description string
	WorkerType  string
	// Image is the URL already stored, sent back by the dashboard on update.
	Image     string
	ImageFile *multipart.FileHeader
}

func (s *WorkerService) List(ctx context.Context, page domain.Page) (domain.PageResult[domain.Worker], error) {
	workers, total, err := s.repo.List(ctx, page)
	if err != nil {
		return domain.PageResult[domain.Worker]{}, err
	}
	return domain.PageResult[domain.Worker]{Data: workers, Pagination: domain.NewPagination(total, page)}, nil
}

func (s *WorkerService) Get(ctx context.Context, id int64) (*domain.Worker, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *WorkerService) Create(ctx context.Context, in WorkerInput) (*domain.Worker, error) {
	if in.ImageFile == nil {
		return nil, invalid("image is required")
	}
	image, err := uploadOne(ctx, s.uploader, in.ImageFile)
	if err != nil {
		return nil, err
	}
	worker := &domain.Worker{
		Name:        in.Name,
		Description: in.Description,
		WorkerType:  in.WorkerType,
		Image:       image,
	}
	if err := s.repo.Create(ctx, worker); err != nil {
		return nil, err
	}
	s.logger.Info("worker created", zap.Int64("id", worker.ID))
	return worker, nil
}

// Update applies the form. A new file replaces the image, otherwise the
// image URL from the form (or the stored one) is kept.
func (s *WorkerService) Update(ctx context.Context, id int64, in WorkerInput) (*domain.Worker, error) {
	worker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	image, err := uploadOne(ctx, s.uploader, in.ImageFile)
	if err != nil {
		return nil, err
	}

	worker.Name = pick(in.Name, worker.Name)
	worker.Description = pick(in.Description, worker.Description)
	worker.WorkerType = pick(in.WorkerType, worker.WorkerType)
	worker.Image = pick(image, pick(unquote(in.Image), worker.Image))

	if err := s.repo.Update(ctx, worker); err != nil {
		return nil, err
	}
	return worker, nil
}

func (s *WorkerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("worker deleted", zap.Int64("id", id))
	return nil
}
