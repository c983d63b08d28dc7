package visitor

import (
	"context"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	"github.com/corpotravel/trip-management/internal/communication"
	"github.com/corpotravel/trip-management/internal/trip"
	"github.com/corpotravel/trip-management/pkg/logger"
)

// MyTrip is the visitor's single-page payload: their trip, their profile,
// the organizer to contact and the trip's announcements.
type MyTrip struct {
	Trip           *trip.Trip                     `json:"viagem"`
	Profile        *Profile                       `json:"perfil"`
	Organizer      *Organizer                     `json:"gestor"`
	Communications []*communication.Communication `json:"comunicados"`
}

type ServiceAPI interface {
	GetMyTrip(ctx context.Context, visitor *auth.User) (*MyTrip, error)
	AcceptTerms(ctx context.Context, visitor *auth.User) (*Profile, error)
}

type RepositoryAPI interface {
	GetProfileByUserID(ctx context.Context, userID int64) (*Profile, error)
	AcceptTerms(ctx context.Context, userID int64) error
}

type TripReaderAPI interface {
	GetTripByID(ctx context.Context, tripID int64) (*trip.Trip, error)
}

type UserReaderAPI interface {
	GetUserByID(userID int64) (*auth.User, error)
}

type CommunicationReaderAPI interface {
	ListByTrip(ctx context.Context, tripID int64) ([]*communication.Communication, error)
}

type Service struct {
	repo  RepositoryAPI
	trips TripReaderAPI
	users UserReaderAPI
	comms CommunicationReaderAPI
}

func NewService(repo RepositoryAPI, trips TripReaderAPI, users UserReaderAPI, comms CommunicationReaderAPI) *Service {
	return &Service{repo: repo, trips: trips, users: users, comms: comms}
}

// GetMyTrip withholds everything but the profile until the visitor has
// accepted the participation terms.
func (s *Service) GetMyTrip(ctx context.Context, visitor *auth.User) (*MyTrip, error) {
	profile, err := s.repo.GetProfileByUserID(ctx, visitor.ID)
	if err != nil {
		return nil, err
	}
	if profile.TripID == nil {
		return nil, internal.ErrTripNotFound
	}
	if !profile.TermsAccepted {
		return nil, internal.ErrTermsNotAccepted
	}

	t, err := s.trips.GetTripByID(ctx, *profile.TripID)
	if err != nil {
		return nil, err
	}

	var organizer *Organizer
	if owner, err := s.users.GetUserByID(t.RequesterID); err == nil {
		organizer = &Organizer{ID: owner.ID, FullName: owner.FullName, Email: owner.Email}
	} else {
		logger.From(ctx).Warn("failed to load trip organizer", "trip_id", t.ID, "error", err)
	}

	comms, err := s.comms.ListByTrip(ctx, t.ID)
	if err != nil {
		logger.From(ctx).Warn("failed to load trip announcements", "trip_id", t.ID, "error", err)
		comms = []*communication.Communication{}
	}

	return &MyTrip{Trip: t, Profile: profile, Organizer: organizer, Communications: comms}, nil
}

func (s *Service) AcceptTerms(ctx context.Context, visitor *auth.User) (*Profile, error) {
	if err := s.repo.AcceptTerms(ctx, visitor.ID); err != nil {
		logger.From(ctx).Error("failed to accept terms", "user_id", visitor.ID, "error", err)
		return nil, err
	}

	logger.From(ctx).Info("participation terms accepted", "user_id", visitor.ID)
	return s.repo.GetProfileByUserID(ctx, visitor.ID)
}
