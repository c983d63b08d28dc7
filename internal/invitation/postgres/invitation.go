package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	invitationDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/invitation"
	userDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/user"
	"github.com/corpotravel/trip-management/internal/invitation"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateInvitation(ctx context.Context, inv *invitation.Invitation) (*invitation.Invitation, error) {
	model := invitation.ToDataModel(inv)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return invitation.FromDataModel(model), nil
}

func (r *Repository) GetByToken(ctx context.Context, token string) (*invitation.Invitation, error) {
	var model invitationDatamodel.Invitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrInvitationNotFound
		}
		return nil, err
	}
	return invitation.FromDataModel(&model), nil
}

func (r *Repository) ListByTrip(ctx context.Context, tripID int64) ([]*invitation.Invitation, error) {
	var models []invitationDatamodel.Invitation
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	invitations := make([]*invitation.Invitation, 0, len(models))
	for i := range models {
		invitations = append(invitations, invitation.FromDataModel(&models[i]))
	}
	return invitations, nil
}

// Redeem consumes the token and creates the visitor account in a single
// transaction. The used flag is flipped with a guarded UPDATE so a token
// presented twice concurrently can only be consumed once.
func (r *Repository) Redeem(ctx context.Context, invitationID int64, account invitation.VisitorAccount) (*auth.User, error) {
	var created *auth.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv invitationDatamodel.Invitation
		if err := tx.Where("id = ?", invitationID).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrInvitationNotFound
			}
			return err
		}

		now := time.Now()
		result := tx.Model(&invitationDatamodel.Invitation{}).
			Where("id = ? AND used = false", invitationID).
			Updates(map[string]interface{}{"used": true, "used_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrInvitationUsed
		}

		u := userDatamodel.User{
			Email:        account.Email,
			FullName:     account.FullName,
			PasswordHash: account.PasswordHash,
			Role:         auth.RoleVisitante,
			IsActive:     true,
		}
		if err := tx.Create(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
				return internal.ErrEmailTaken
			}
			return err
		}

		profile := userDatamodel.Profile{
			UserID:            u.ID,
			TripID:            &inv.TripID,
			Document:          account.Document,
			BirthDate:         account.BirthDate,
			Phone:             account.Phone,
			EmergencyContact:  account.EmergencyContact,
			Allergies:         account.Allergies,
			MedicalConditions: account.MedicalConditions,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		created = &auth.User{
			ID:       u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     u.Role,
			IsActive: u.IsActive,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
