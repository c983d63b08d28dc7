package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/corpotravel/trip-management/internal"
	userDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/user"
	"github.com/corpotravel/trip-management/internal/visitor"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetProfileByUserID(ctx context.Context, userID int64) (*visitor.Profile, error) {
	var model userDatamodel.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	return &visitor.Profile{
		UserID:            model.UserID,
		TripID:            model.TripID,
		Document:          model.Document,
		BirthDate:         model.BirthDate,
		Phone:             model.Phone,
		EmergencyContact:  model.EmergencyContact,
		Allergies:         model.Allergies,
		MedicalConditions: model.MedicalConditions,
		TermsAccepted:     model.TermsAccepted,
	}, nil
}

func (r *Repository) AcceptTerms(ctx context.Context, userID int64) error {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"terms_accepted": true,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}
