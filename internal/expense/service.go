package expense

import (
	"context"
	"time"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/internal/core/events"
	"github.com/corpotravel/trip-management/internal/trip"
	"github.com/corpotravel/trip-management/pkg/logger"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, user *auth.User, dto CreateExpenseDTO) (*Expense, error)
	GetExpense(ctx context.Context, user *auth.User, expenseID int64) (*Expense, error)
	ListByTrip(ctx context.Context, user *auth.User, tripID int64) ([]*Expense, error)
	UpdateExpense(ctx context.Context, user *auth.User, expenseID int64, dto UpdateExpenseDTO) (*Expense, error)
	ApproveExpense(ctx context.Context, reviewer *auth.User, expenseID int64) (*Expense, error)
	RejectExpense(ctx context.Context, reviewer *auth.User, expenseID int64, dto ReviewExpenseDTO) (*Expense, error)
	DeleteExpense(ctx context.Context, user *auth.User, expenseID int64) error
}

type RepositoryAPI interface {
	CreateExpense(ctx context.Context, e *Expense) (*Expense, error)
	GetExpenseByID(ctx context.Context, expenseID int64) (*Expense, error)
	ListExpensesByTrip(ctx context.Context, tripID int64) ([]*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	// ReviewExpense applies the decision only while the row is still
	// pendente, so concurrent reviewers cannot both win.
	ReviewExpense(ctx context.Context, expenseID int64, status string, reason *string, reviewerID int64, reviewedAt time.Time) (*Expense, error)
	DeleteExpense(ctx context.Context, expenseID int64) error
}

// TripReaderAPI is the slice of the trip repository this service needs for
// ownership checks.
type TripReaderAPI interface {
	GetTripByID(ctx context.Context, tripID int64) (*trip.Trip, error)
}

type EventPublisherAPI interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	trips     TripReaderAPI
	publisher EventPublisherAPI
	now       func() time.Time
}

func NewService(repo RepositoryAPI, trips TripReaderAPI, publisher EventPublisherAPI) *Service {
	return &Service{
		repo:      repo,
		trips:     trips,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *Service) CreateExpense(ctx context.Context, user *auth.User, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	t, err := s.trips.GetTripByID(ctx, dto.TripID)
	if err != nil {
		return nil, err
	}
	if t.RequesterID != user.ID {
		return nil, internal.ErrUnauthorizedAccess
	}

	e := &Expense{
		TripID:          dto.TripID,
		UserID:          user.ID,
		Type:            dto.Type,
		AmountCents:     dto.AmountCents,
		ExpenseDate:     dto.ExpenseDate,
		Description:     dto.Description,
		ReceiptURL:      dto.ReceiptURL,
		ReceiptFileName: dto.ReceiptFileName,
		Status:          StatusPendente,
	}

	created, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		logger.From(ctx).Error("failed to create expense", "trip_id", dto.TripID, "error", err)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	logger.From(ctx).Info("expense created",
		"expense_id", created.ID,
		"trip_id", created.TripID,
		"amount_cents", created.AmountCents)
	return created, nil
}

func (s *Service) GetExpense(ctx context.Context, user *auth.User, expenseID int64) (*Expense, error) {
	e, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if e.UserID != user.ID && !user.IsApprover() {
		return nil, internal.ErrUnauthorizedAccess
	}
	return e, nil
}

func (s *Service) ListByTrip(ctx context.Context, user *auth.User, tripID int64) ([]*Expense, error) {
	t, err := s.trips.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t.RequesterID != user.ID && !user.IsApprover() {
		return nil, internal.ErrUnauthorizedAccess
	}

	expenses, err := s.repo.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		logger.From(ctx).Error("failed to list expenses", "trip_id", tripID, "error", err)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return expenses, nil
}

// UpdateExpense lets the owner correct an expense. Editing a rejected
// expense resubmits it: status goes back to pendente and the previous
// rejection reason is cleared.
func (s *Service) UpdateExpense(ctx context.Context, user *auth.User, expenseID int64, dto UpdateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	e, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if e.UserID != user.ID {
		return nil, internal.ErrUnauthorizedAccess
	}
	if !e.CanBeEditedBy(user.ID) {
		return nil, internal.NewValidationError(
			"approved expenses can no longer be edited",
			internal.ErrCodeInvalidStatus)
	}

	dto.Apply(e)
	if e.Status == StatusReprovado {
		e.Status = StatusPendente
		e.RejectionReason = nil
		e.ReviewedBy = nil
		e.ReviewedAt = nil
	}

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		logger.From(ctx).Error("failed to update expense", "expense_id", expenseID, "error", err)
		return nil, internal.NewInternalError("failed to update expense", err)
	}
	return e, nil
}

func (s *Service) ApproveExpense(ctx context.Context, reviewer *auth.User, expenseID int64) (*Expense, error) {
	return s.review(ctx, reviewer, expenseID, StatusAprovado, nil)
}

func (s *Service) RejectExpense(ctx context.Context, reviewer *auth.User, expenseID int64, dto ReviewExpenseDTO) (*Expense, error) {
	if err := dto.ValidateRejection(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeMissingReason)
	}
	reason := dto.Justification
	return s.review(ctx, reviewer, expenseID, StatusReprovado, &reason)
}

func (s *Service) review(ctx context.Context, reviewer *auth.User, expenseID int64, status string, reason *string) (*Expense, error) {
	current, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !current.CanBeReviewed() {
		return nil, internal.NewValidationError(
			"only pending expenses can be approved or rejected",
			internal.ErrCodeInvalidStatus)
	}
	if current.UserID == reviewer.ID {
		return nil, internal.NewForbiddenError(
			"reviewers cannot decide their own expenses",
			internal.ErrCodeUnauthorizedAccess)
	}

	updated, err := s.repo.ReviewExpense(ctx, expenseID, status, reason, reviewer.ID, s.now())
	if err != nil {
		logger.From(ctx).Error("failed to review expense", "expense_id", expenseID, "error", err)
		return nil, err
	}

	logger.From(ctx).Info("expense reviewed",
		"expense_id", expenseID,
		"trip_id", updated.TripID,
		"reviewer_id", reviewer.ID,
		"status", status)

	if s.publisher != nil {
		var reasonText string
		if reason != nil {
			reasonText = *reason
		}
		event := events.NewExpenseReviewedEvent(expenseID, updated.TripID, reviewer.ID, status, reasonText)
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.From(ctx).Error("failed to publish expense review event", "expense_id", expenseID, "error", err)
		}
	}

	return updated, nil
}

func (s *Service) DeleteExpense(ctx context.Context, user *auth.User, expenseID int64) error {
	e, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if e.UserID != user.ID && !user.IsDeveloper() {
		return internal.ErrUnauthorizedAccess
	}
	if e.Status == StatusAprovado && !user.IsDeveloper() {
		return internal.NewValidationError(
			"approved expenses can no longer be deleted",
			internal.ErrCodeInvalidStatus)
	}

	if err := s.repo.DeleteExpense(ctx, expenseID); err != nil {
		logger.From(ctx).Error("failed to delete expense", "expense_id", expenseID, "error", err)
		return internal.NewInternalError("failed to delete expense", err)
	}
	return nil
}
