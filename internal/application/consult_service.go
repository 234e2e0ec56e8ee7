package application

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/arcrobot/admin_backend/internal/domain"
)

// ConsultNotifier tells the staff about a new consultation request.
type ConsultNotifier interface {
	NotifyConsult(ctx context.Context, consult *domain.Consult) error
}

type ConsultService struct {
	repo      domain.ConsultRepository
	validator Validator
	notifier  ConsultNotifier
	logger    *zap.Logger
}

// NewConsultService creates the service; notifier may be nil.
func NewConsultService(repo domain.ConsultRepository, notifier ConsultNotifier, logger *zap.Logger) *ConsultService {
	return &ConsultService{repo: repo, notifier: notifier, logger: logger}
}

func (s *ConsultService) List(ctx context.Context) ([]domain.Consult, error) {
	return s.repo.List(ctx)
}

func (s *ConsultService) Get(ctx context.Context, id int64) (*domain.Consult, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores the request and notifies the staff. A failed notification
// is logged; the request itself still succeeds.
func (s *ConsultService) Create(ctx context.Context, name, phone, email, reason string) (*domain.Consult, error) {
	consult := &domain.Consult{
		Name:        strings.TrimSpace(name),
		PhoneNumber: strings.TrimSpace(phone),
		Email:       strings.TrimSpace(email),
		Reason:      strings.TrimSpace(reason),
	}
	if err := s.validator.ValidateConsult(consult.Name, consult.PhoneNumber, consult.Email, consult.Reason); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, consult); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyConsult(ctx, consult); err != nil {
			s.logger.Warn("consult notification failed", zap.Int64("id", consult.ID), zap.Error(err))
		}
	}
	return consult, nil
}
