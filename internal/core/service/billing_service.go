package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
	"github.com/billable/timesheet-api/internal/pkg/metrics"
)

// BillingService serves billing summaries through the summary cache.
type BillingService struct {
	cache *SummaryCache
	log   zerolog.Logger
}

var _ ports.BillingService = (*BillingService)(nil)

func NewBillingService(cache *SummaryCache, log zerolog.Logger) *BillingService {
	return &BillingService{cache: cache, log: log}
}

// GetBillingSummary returns the project's summary and whether it was served
// from cache. Unknown projects yield domain.ErrProjectNotFound.
func (s *BillingService) GetBillingSummary(ctx context.Context, projectID string) (*domain.BillingSummary, bool, error) {
	summary, cached, err := s.cache.GetOrCompute(ctx, projectID)
	if err != nil {
		return nil, false, err
	}

	result := "miss"
	if cached {
		result = "hit"
	}
	metrics.BillingCacheLookupsTotal.WithLabelValues(result).Inc()

	return summary, cached, nil
}
