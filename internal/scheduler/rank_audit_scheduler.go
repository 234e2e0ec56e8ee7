// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arcrobot/admin_backend/internal/ranking"
)

// Auditor inspects one rank scope.
type Auditor interface {
	Audit(ctx context.Context, scope ranking.Scope) (ranking.Report, error)
}

// RankAuditScheduler checks every ranked scope for duplicates and gaps on
// a fixed interval and logs what it finds. It never repairs anything.
type RankAuditScheduler struct {
	auditor  Auditor
	scopes   []ranking.Scope
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRankAuditScheduler(auditor Auditor, scopes []ranking.Scope, interval time.Duration, logger *zap.Logger) *RankAuditScheduler {
	return &RankAuditScheduler{
		auditor:  auditor,
		scopes:   scopes,
		interval: interval,
		logger:   logger,
	}
}

// Start runs one audit right away, then one every interval. A zero
// interval disables the scheduler.
func (s *RankAuditScheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("rank audit scheduler disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.logger.Info("rank audit scheduler started", zap.Duration("interval", s.interval))
	go func() {
		defer close(s.done)
		s.RunOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// Stop halts the scheduler and waits for a running audit to finish.
func (s *RankAuditScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("rank audit scheduler stopped")
}

// RunOnce audits every scope and returns the reports it could produce.
func (s *RankAuditScheduler) RunOnce(ctx context.Context) []ranking.Report {
	reports := make([]ranking.Report, 0, len(s.scopes))
	for _, scope := range s.scopes {
		rep, err := s.auditor.Audit(ctx, scope)
		if err != nil {
			s.logger.Error("rank audit failed", zap.String("scope", string(scope)), zap.Error(err))
			continue
		}
		reports = append(reports, rep)
		if rep.Dense() {
			s.logger.Debug("rank audit clean", zap.String("scope", string(scope)), zap.Int("count", rep.Count))
			continue
		}
		s.logger.Warn("rank audit found violations",
			zap.String("scope", string(scope)),
			zap.Int("count", rep.Count),
			zap.Ints("duplicates", rep.Duplicates),
			zap.Ints("gaps", rep.Gaps))
	}
	return reports
}
