package extraction

import (
	"context"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/pkg/logger"
)

type ServiceAPI interface {
	ExtractReceipt(ctx context.Context, dto ExtractRequestDTO) (*Result, error)
}

// SubmitterAPI is satisfied by Pool.
type SubmitterAPI interface {
	Submit(ctx context.Context, receiptURL string) (*ExtractedReceipt, error)
}

type Service struct {
	pool SubmitterAPI
}

func NewService(pool SubmitterAPI) *Service {
	return &Service{pool: pool}
}

// ExtractReceipt returns a best-effort reading of the receipt. Backend
// failures degrade to Success=false so the form falls back to manual
// entry; only an invalid request is an error.
func (s *Service) ExtractReceipt(ctx context.Context, dto ExtractRequestDTO) (*Result, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	receipt, err := s.pool.Submit(ctx, dto.ReceiptURL)
	if err != nil {
		logger.From(ctx).Warn("receipt extraction degraded to manual entry", "error", err)
		return &Result{
			Success: false,
			Message: "não foi possível ler o recibo, preencha os campos manualmente",
		}, nil
	}

	return &Result{Success: true, Receipt: receipt}, nil
}
