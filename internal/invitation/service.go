package invitation

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
	CreateInvitation(ctx context.Context, creator *auth.User, tripID int64, dto CreateInvitationDTO) (*Invitation, error)
	ListByTrip(ctx context.Context, requester *auth.User, tripID int64) ([]*Invitation, error)
	RedeemInvitation(ctx context.Context, dto RedeemInvitationDTO) (*auth.User, error)
}

// VisitorAccount carries everything the repository needs to create the
// visitor's user and profile atomically with the token redemption.
type VisitorAccount struct {
	Email             string
	FullName          string
	PasswordHash      string
	Document          string
	BirthDate         *time.Time
	Phone             string
	EmergencyContact  string
	Allergies         string
	MedicalConditions string
}

type RepositoryAPI interface {
	CreateInvitation(ctx context.Context, inv *Invitation) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	ListByTrip(ctx context.Context, tripID int64) ([]*Invitation, error)
	// Redeem marks the invitation used and creates the visitor account in
	// one transaction. A token that was consumed in between surfaces as
	// ErrInvitationUsed.
	Redeem(ctx context.Context, invitationID int64, account VisitorAccount) (*auth.User, error)
}

type TripReaderAPI interface {
	GetTripByID(ctx context.Context, tripID int64) (*trip.Trip, error)
}

type PasswordHasherAPI interface {
	HashPassword(password string) (string, error)
}

type EventPublisherAPI interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	trips     TripReaderAPI
	hasher    PasswordHasherAPI
	publisher EventPublisherAPI
	newToken  func() (string, error)
}

func NewService(repo RepositoryAPI, trips TripReaderAPI, hasher PasswordHasherAPI, publisher EventPublisherAPI) *Service {
	return &Service{
		repo:      repo,
		trips:     trips,
		hasher:    hasher,
		publisher: publisher,
		newToken:  auth.GenerateRandomToken,
	}
}

// CreateInvitation issues a single-use token bound to the guest's email
// and document. The token appears only in this response.
func (s *Service) CreateInvitation(ctx context.Context, creator *auth.User, tripID int64, dto CreateInvitationDTO) (*Invitation, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.trips.GetTripByID(ctx, tripID); err != nil {
		return nil, err
	}

	token, err := s.newToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate invitation token", err)
	}

	inv := &Invitation{
		TripID:    tripID,
		Email:     dto.Email,
		Document:  NormalizeDocument(dto.Document),
		Token:     token,
		CreatedBy: creator.ID,
	}

	created, err := s.repo.CreateInvitation(ctx, inv)
	if err != nil {
		logger.From(ctx).Error("failed to create invitation", "trip_id", tripID, "error", err)
		return nil, internal.NewInternalError("failed to create invitation", err)
	}

	logger.From(ctx).Info("invitation created",
		"invitation_id", created.ID,
		"trip_id", tripID,
		"created_by", creator.ID)
	return created, nil
}

func (s *Service) ListByTrip(ctx context.Context, requester *auth.User, tripID int64) ([]*Invitation, error) {
	t, err := s.trips.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t.RequesterID != requester.ID && !requester.IsApprover() {
		return nil, internal.ErrUnauthorizedAccess
	}

	invitations, err := s.repo.ListByTrip(ctx, tripID)
	if err != nil {
		logger.From(ctx).Error("failed to list invitations", "trip_id", tripID, "error", err)
		return nil, internal.NewInternalError("failed to list invitations", err)
	}

	redacted := make([]*Invitation, 0, len(invitations))
	for _, inv := range invitations {
		redacted = append(redacted, inv.Redact())
	}
	return redacted, nil
}

// RedeemInvitation turns a valid token into a VISITANTE account bound to
// the invitation's trip. The identity presented must match the one the
// invitation was issued for; a consumed token is a conflict, not a retry.
func (s *Service) RedeemInvitation(ctx context.Context, dto RedeemInvitationDTO) (*auth.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	inv, err := s.repo.GetByToken(ctx, dto.Token)
	if err != nil {
		return nil, err
	}
	if inv.Used {
		return nil, internal.ErrInvitationUsed
	}
	if !inv.Matches(dto.Email, NormalizeDocument(dto.Document)) {
		return nil, internal.ErrInvitationMismatch
	}

	passwordHash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	visitor, err := s.repo.Redeem(ctx, inv.ID, VisitorAccount{
		Email:             dto.Email,
		FullName:          dto.FullName,
		PasswordHash:      passwordHash,
		Document:          NormalizeDocument(dto.Document),
		BirthDate:         dto.BirthDate,
		Phone:             dto.Phone,
		EmergencyContact:  dto.EmergencyContact,
		Allergies:         dto.Allergies,
		MedicalConditions: dto.MedicalConditions,
	})
	if err != nil {
		logger.From(ctx).Error("failed to redeem invitation", "invitation_id", inv.ID, "error", err)
		return nil, err
	}

	logger.From(ctx).Info("invitation redeemed",
		"invitation_id", inv.ID,
		"trip_id", inv.TripID,
		"visitor_id", visitor.ID)

	if s.publisher != nil {
		event := events.NewInvitationRedeemedEvent(inv.ID, inv.TripID, visitor.ID)
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.From(ctx).Error("failed to publish invitation event", "invitation_id", inv.ID, "error", err)
		}
	}

	return visitor, nil
}
