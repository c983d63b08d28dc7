package trip

import (
	"context"
	"errors"
	"time"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/internal/core/events"
	"github.com/corpotravel/trip-management/pkg/logger"
)

type ServiceAPI interface {
	CreateTrip(ctx context.Context, requester *auth.User, dto CreateTripDTO) (*Trip, error)
	GetTrip(ctx context.Context, requester *auth.User, tripID int64) (*Trip, error)
	ListTrips(ctx context.Context, requester *auth.User) ([]*Trip, error)
	UpcomingTrips(ctx context.Context, requester *auth.User) ([]*Trip, error)
	UpdateTrip(ctx context.Context, requester *auth.User, tripID int64, dto UpdateTripDTO) (*Trip, error)
	UpdateStatus(ctx context.Context, approver *auth.User, tripID int64, dto UpdateStatusDTO) (*Trip, error)
	DeleteTrip(ctx context.Context, requester *auth.User, tripID int64) error
	AddEvent(ctx context.Context, requester *auth.User, tripID int64, dto EventDTO) (*ItineraryEvent, error)
	RemoveEvent(ctx context.Context, requester *auth.User, tripID, eventID int64) error
}

type RepositoryAPI interface {
	CreateTrip(ctx context.Context, t *Trip) (*Trip, error)
	GetTripByID(ctx context.Context, tripID int64) (*Trip, error)
	ListTripsByRequester(ctx context.Context, requesterID int64) ([]*Trip, error)
	ListAllTrips(ctx context.Context) ([]*Trip, error)
	UpdateTrip(ctx context.Context, t *Trip) error
	UpdateTripStatus(ctx context.Context, tripID int64, status string, reason *string, expectedVersion int64) (*Trip, error)
	DeleteTrip(ctx context.Context, tripID int64) error
	AddEvent(ctx context.Context, ev *ItineraryEvent) (*ItineraryEvent, error)
	DeleteEvent(ctx context.Context, tripID, eventID int64) error
}

// EventPublisherAPI is satisfied by events.EventBus.
type EventPublisherAPI interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	publisher EventPublisherAPI
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher EventPublisherAPI) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *Service) CreateTrip(ctx context.Context, requester *auth.User, dto CreateTripDTO) (*Trip, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	t := &Trip{
		RequesterID:    requester.ID,
		Origin:         dto.Origin,
		Destination:    dto.Destination,
		StartDate:      dto.StartDate,
		EndDate:        dto.EndDate,
		Reason:         dto.Reason,
		Status:         StatusEmAnalise,
		EstimatedValue: dto.EstimatedValue,
		CostCenter:     dto.CostCenter,
		HotelInfo:      dto.HotelInfo,
		Version:        1,
	}
	for _, ev := range dto.Events {
		t.Events = append(t.Events, &ItineraryEvent{
			Type:        ev.Type,
			Title:       ev.Title,
			StartsAt:    ev.StartsAt,
			Location:    ev.Location,
			Description: ev.Description,
		})
	}

	created, err := s.repo.CreateTrip(ctx, t)
	if err != nil {
		logger.From(ctx).Error("failed to create trip", "error", err)
		return nil, internal.NewInternalError("failed to create trip", err)
	}

	logger.From(ctx).Info("trip created",
		"trip_id", created.ID,
		"requester_id", requester.ID,
		"destination", created.Destination)

	s.decorate(created)
	return created, nil
}

func (s *Service) GetTrip(ctx context.Context, requester *auth.User, tripID int64) (*Trip, error) {
	t, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !canView(requester, t) {
		return nil, internal.ErrUnauthorizedAccess
	}

	s.decorate(t)
	return t, nil
}

// ListTrips returns the requester's own trips, or every trip for approvers.
func (s *Service) ListTrips(ctx context.Context, requester *auth.User) ([]*Trip, error) {
	var (
		trips []*Trip
		err   error
	)
	if requester.IsApprover() {
		trips, err = s.repo.ListAllTrips(ctx)
	} else {
		trips, err = s.repo.ListTripsByRequester(ctx, requester.ID)
	}
	if err != nil {
		logger.From(ctx).Error("failed to list trips", "error", err)
		return nil, internal.NewInternalError("failed to list trips", err)
	}

	for _, t := range trips {
		s.decorate(t)
	}
	return trips, nil
}

func (s *Service) UpcomingTrips(ctx context.Context, requester *auth.User) ([]*Trip, error) {
	trips, err := s.ListTrips(ctx, requester)
	if err != nil {
		return nil, err
	}
	return SelectUpcoming(trips, s.now()), nil
}

func (s *Service) UpdateTrip(ctx context.Context, requester *auth.User, tripID int64, dto UpdateTripDTO) (*Trip, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	t, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t.RequesterID != requester.ID && !requester.IsDeveloper() {
		return nil, internal.ErrUnauthorizedAccess
	}
	if !t.CanBeEdited() {
		return nil, internal.ErrTripNotEditable
	}

	if err := dto.Apply(t); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidDates)
	}

	if err := s.repo.UpdateTrip(ctx, t); err != nil {
		logger.From(ctx).Error("failed to update trip", "trip_id", tripID, "error", err)
		return nil, internal.NewInternalError("failed to update trip", err)
	}

	s.decorate(t)
	return t, nil
}

// UpdateStatus moves a pending trip to aprovado or reprovado. The caller's
// version must match the stored row, otherwise the decision was made
// against stale data and is rejected with a conflict.
func (s *Service) UpdateStatus(ctx context.Context, approver *auth.User, tripID int64, dto UpdateStatusDTO) (*Trip, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidStatus)
	}

	current, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if !current.CanTransitionTo(dto.Status) {
		return nil, internal.NewValidationError(
			"only trips em_analise can be approved or rejected",
			internal.ErrCodeInvalidStatus)
	}

	var reason *string
	if dto.Status == StatusReprovado {
		r := dto.Justification
		reason = &r
	}

	updated, err := s.repo.UpdateTripStatus(ctx, tripID, dto.Status, reason, dto.Version)
	if err != nil {
		if errors.Is(err, internal.ErrTripVersionStale) || errors.Is(err, internal.ErrTripNotFound) {
			return nil, err
		}
		logger.From(ctx).Error("failed to update trip status", "trip_id", tripID, "error", err)
		return nil, internal.NewInternalError("failed to update trip status", err)
	}

	logger.From(ctx).Info("trip status changed",
		"trip_id", tripID,
		"approver_id", approver.ID,
		"old_status", current.Status,
		"new_status", updated.Status)

	if s.publisher != nil {
		event := events.NewTripStatusChangedEvent(tripID, approver.ID, current.Status, updated.Status, dto.Justification)
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.From(ctx).Error("failed to publish trip status event", "trip_id", tripID, "error", err)
		}
	}

	s.decorate(updated)
	return updated, nil
}

func (s *Service) DeleteTrip(ctx context.Context, requester *auth.User, tripID int64) error {
	t, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		return err
	}
	if t.RequesterID != requester.ID && !requester.IsDeveloper() {
		return internal.ErrUnauthorizedAccess
	}
	if !t.CanBeEdited() && !requester.IsDeveloper() {
		return internal.ErrTripNotEditable
	}

	if err := s.repo.DeleteTrip(ctx, tripID); err != nil {
		logger.From(ctx).Error("failed to delete trip", "trip_id", tripID, "error", err)
		return internal.NewInternalError("failed to delete trip", err)
	}
	return nil
}

func (s *Service) AddEvent(ctx context.Context, requester *auth.User, tripID int64, dto EventDTO) (*ItineraryEvent, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	t, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t.RequesterID != requester.ID && !requester.IsApprover() {
		return nil, internal.ErrUnauthorizedAccess
	}

	ev := &ItineraryEvent{
		TripID:      tripID,
		Type:        dto.Type,
		Title:       dto.Title,
		StartsAt:    dto.StartsAt,
		Location:    dto.Location,
		Description: dto.Description,
	}
	created, err := s.repo.AddEvent(ctx, ev)
	if err != nil {
		logger.From(ctx).Error("failed to add itinerary event", "trip_id", tripID, "error", err)
		return nil, internal.NewInternalError("failed to add itinerary event", err)
	}
	return created, nil
}

func (s *Service) RemoveEvent(ctx context.Context, requester *auth.User, tripID, eventID int64) error {
	t, err := s.repo.GetTripByID(ctx, tripID)
	if err != nil {
		return err
	}
	if t.RequesterID != requester.ID && !requester.IsApprover() {
		return internal.ErrUnauthorizedAccess
	}
	return s.repo.DeleteEvent(ctx, tripID, eventID)
}

// decorate fills derived, read-only fields before a trip leaves the service.
func (s *Service) decorate(t *Trip) {
	t.Lifecycle = DeriveLifecycle(t.Status, t.EndDate, s.now())
	SortEvents(t.Events)
	if t.Events == nil {
		t.Events = []*ItineraryEvent{}
	}
}

func canView(u *auth.User, t *Trip) bool {
	return t.RequesterID == u.ID || u.IsApprover()
}
