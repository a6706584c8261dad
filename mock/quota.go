package mock

import (
	"context"

	"github.com/docdex/docdex"
)

var _ docdex.QuotaService = (*QuotaService)(nil)

// QuotaService is a mock implementation of docdex.QuotaService.
type QuotaService struct {
	CheckFn    func(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error)
	CheckAllFn func(ctx context.Context, accountID string) ([]*docdex.QuotaStatus, error)
	WarningsFn func(ctx context.Context, accountID string) ([]docdex.QuotaWarning, error)
	ConsumeFn  func(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error)
}

func (s *QuotaService) Check(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
	return s.CheckFn(ctx, accountID, dim)
}

func (s *QuotaService) CheckAll(ctx context.Context, accountID string) ([]*docdex.QuotaStatus, error) {
	return s.CheckAllFn(ctx, accountID)
}

func (s *QuotaService) Warnings(ctx context.Context, accountID string) ([]docdex.QuotaWarning, error) {
	return s.WarningsFn(ctx, accountID)
}

func (s *QuotaService) Consume(ctx context.Context, accountID string, dim docdex.QuotaDimension) (*docdex.QuotaStatus, error) {
	return s.ConsumeFn(ctx, accountID, dim)
}
