package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/corpotravel/trip-management/internal"
	"github.com/corpotravel/trip-management/internal/auth"
	userDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListUsers(ctx context.Context) ([]*auth.User, error) {
	var models []userDatamodel.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]*auth.User, 0, len(models))
	for i := range models {
		u := models[i]
		users = append(users, &auth.User{
			ID:       u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     u.Role,
			IsActive: u.IsActive,
		})
	}
	return users, nil
}

func (r *Repository) UpdateRole(ctx context.Context, userID int64, role string, isActive *bool) (*auth.User, error) {
	updates := map[string]interface{}{
		"role":       role,
		"updated_at": time.Now(),
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	result := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, internal.ErrUserNotFound
	}

	var model userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	return &auth.User{
		ID:       model.ID,
		Email:    model.Email,
		FullName: model.FullName,
		Role:     model.Role,
		IsActive: model.IsActive,
	}, nil
}
