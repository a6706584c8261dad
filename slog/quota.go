package slog

import (
	"context"
	"log/slog"

	"github.com/docdex/docdex"
)

// Ensure LoggingQuotaService implements docdex.QuotaService.
var _ docdex.QuotaService = (*LoggingQuotaService)(nil)

// LoggingQuotaService wraps a QuotaService and logs denials and
// warning-level usage. Routine allowed checks stay quiet.
type LoggingQuotaService struct {
	next   docdex.QuotaService
	logger *slog.Logger
}

// NewLoggingQuotaService creates a new LoggingQuotaService.
func NewLoggingQuotaService(next docdex.QuotaService, logger *slog.Logger) *LoggingQuotaService {
	return &LoggingQuotaService{next: next, logger: logger}
}

// Check delegates to the wrapped service and logs denials.
func (s *LoggingQuotaService) Check(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
	status, err := s.next.Check(ctx, accountID, dim)
	s.logStatus(accountID, status, err)
	return status, err
}

// CheckAll delegates to the wrapped service.
func (s *LoggingQuotaService) CheckAll(ctx context.Context, accountID string) ([]*docdex.QuotaStatus, error) {
	return s.next.CheckAll(ctx, accountID)
}

// Warnings delegates to the wrapped service and logs each warning.
func (s *LoggingQuotaService) Warnings(ctx context.Context, accountID string) ([]docdex.QuotaWarning, error) {
	warnings, err := s.next.Warnings(ctx, accountID)
	for _, w := range warnings {
		s.logger.Warn("quota warning",
			"account", accountID,
			"dimension", w.Dimension,
			"level", w.Level,
			"used", w.Used,
			"limit", w.Limit,
		)
	}
	return warnings, err
}

// Consume delegates to the wrapped service and logs denials.
func (s *LoggingQuotaService) Consume(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
	status, err := s.next.Consume(ctx, accountID, dim)
	s.logStatus(accountID, status, err)
	return status, err
}

func (s *LoggingQuotaService) logStatus(accountID string, status *docdex.QuotaStatus, err error) {
	if err != nil {
		s.logger.Error("quota check failed", "account", accountID, "err", err)
		return
	}
	if !status.Allowed {
		s.logger.Warn("quota denied",
			"account", accountID,
			"dimension", status.Dimension,
			"used", status.Used,
			"limit", status.Limit,
		)
	}
}
