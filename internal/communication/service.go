package communication

import (
	"context"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/internal/trip"
	"github.com/corpotravel/trip-management/pkg/logger"
)

type ServiceAPI interface {
	CreateCommunication(ctx context.Context, author *auth.User, tripID int64, dto CreateCommunicationDTO) (*Communication, error)
	ListByTrip(ctx context.Context, requester *auth.User, tripID int64) ([]*Communication, error)
}

type RepositoryAPI interface {
	CreateCommunication(ctx context.Context, c *Communication) (*Communication, error)
	ListByTrip(ctx context.Context, tripID int64) ([]*Communication, error)
}

type TripReaderAPI interface {
	GetTripByID(ctx context.Context, tripID int64) (*trip.Trip, error)
}

type Service struct {
	repo  RepositoryAPI
	trips TripReaderAPI
}

func NewService(repo RepositoryAPI, trips TripReaderAPI) *Service {
	return &Service{repo: repo, trips: trips}
}

func (s *Service) CreateCommunication(ctx context.Context, author *auth.User, tripID int64, dto CreateCommunicationDTO) (*Communication, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.trips.GetTripByID(ctx, tripID); err != nil {
		return nil, err
	}

	c := &Communication{
		TripID:   tripID,
		AuthorID: author.ID,
		Title:    dto.Title,
		Body:     dto.Body,
	}

	created, err := s.repo.CreateCommunication(ctx, c)
	if err != nil {
		logger.From(ctx).Error("failed to create communication", "trip_id", tripID, "error", err)
		return nil, internal.NewInternalError("failed to create communication", err)
	}
	return created, nil
}

// ListByTrip returns announcements newest first. Visitors get theirs
// through the minha-viagem payload, not this path.
func (s *Service) ListByTrip(ctx context.Context, requester *auth.User, tripID int64) ([]*Communication, error) {
	t, err := s.trips.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t.RequesterID != requester.ID && !requester.IsApprover() {
		return nil, internal.ErrUnauthorizedAccess
	}

	list, err := s.repo.ListByTrip(ctx, tripID)
	if err != nil {
		logger.From(ctx).Error("failed to list communications", "trip_id", tripID, "error", err)
		return nil, internal.NewInternalError("failed to list communications", err)
	}
	return list, nil
}
