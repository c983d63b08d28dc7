package estimate

import (
	"context"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/pkg/logger"
)

type ServiceAPI interface {
	Estimate(ctx context.Context, dto EstimateRequestDTO) (*Estimate, error)
}

// HistoryAPI reads aggregate costs of past trips to a destination.
type HistoryAPI interface {
	GetDestinationStats(ctx context.Context, destination string) (*DestinationStats, error)
}

// CacheAPI fronts the history reads. A miss returns (nil, nil).
type CacheAPI interface {
	GetStats(ctx context.Context, destination string) (*DestinationStats, error)
	SetStats(ctx context.Context, stats *DestinationStats) error
}

type Service struct {
	history HistoryAPI
	cache   CacheAPI
}

func NewService(history HistoryAPI, cache CacheAPI) *Service {
	return &Service{history: history, cache: cache}
}

// Estimate never fails on cache or history trouble: the standard-table
// fallback keeps the form usable.
func (s *Service) Estimate(ctx context.Context, dto EstimateRequestDTO) (*Estimate, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	destination := NormalizeDestination(dto.Destination)
	stats := s.loadStats(ctx, destination)

	result := Compute(dto, stats)
	return &result, nil
}

func (s *Service) loadStats(ctx context.Context, destination string) *DestinationStats {
	if s.cache != nil {
		cached, err := s.cache.GetStats(ctx, destination)
		if err != nil {
			logger.From(ctx).Warn("estimate cache read failed", "destination", destination, "error", err)
		} else if cached != nil {
			return cached
		}
	}

	stats, err := s.history.GetDestinationStats(ctx, destination)
	if err != nil {
		logger.From(ctx).Warn("destination history read failed", "destination", destination, "error", err)
		return nil
	}

	if s.cache != nil && stats != nil && stats.TripCount > 0 {
		if err := s.cache.SetStats(ctx, stats); err != nil {
			logger.From(ctx).Warn("estimate cache write failed", "destination", destination, "error", err)
		}
	}
	return stats
}
