package postgres

import (
	"context"

	"github.com/corpotravel/trip-management/internal/communication"
	communicationDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/communication"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateCommunication(ctx context.Context, c *communication.Communication) (*communication.Communication, error) {
	model := communication.ToDataModel(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return communication.FromDataModel(model), nil
}

func (r *Repository) ListByTrip(ctx context.Context, tripID int64) ([]*communication.Communication, error) {
	var models []communicationDatamodel.Communication
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	list := make([]*communication.Communication, 0, len(models))
	for i := range models {
		list = append(list, communication.FromDataModel(&models[i]))
	}
	return list, nil
}
