package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/corpotravel/trip-management/internal"
	tripDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/trip"
	"github.com/corpotravel/trip-management/internal/trip"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTrip persists the trip and its drafted itinerary in one transaction.
func (r *Repository) CreateTrip(ctx context.Context, t *trip.Trip) (*trip.Trip, error) {
	model := trip.ToDataModel(t)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		for _, ev := range t.Events {
			evModel := trip.EventToDataModel(ev)
			evModel.TripID = model.ID
			if err := tx.Create(evModel).Error; err != nil {
				return err
			}
			ev.ID = evModel.ID
			ev.TripID = evModel.TripID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := trip.FromDataModel(model, time.Now())
	created.Events = t.Events
	return created, nil
}

func (r *Repository) GetTripByID(ctx context.Context, tripID int64) (*trip.Trip, error) {
	var model tripDatamodel.Trip
	if err := r.db.WithContext(ctx).Where("id = ?", tripID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTripNotFound
		}
		return nil, err
	}

	t := trip.FromDataModel(&model, time.Now())

	events, err := r.listEvents(ctx, tripID)
	if err != nil {
		return nil, err
	}
	t.Events = events
	return t, nil
}

func (r *Repository) ListTripsByRequester(ctx context.Context, requesterID int64) ([]*trip.Trip, error) {
	var models []tripDatamodel.Trip
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("start_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, models)
}

func (r *Repository) ListAllTrips(ctx context.Context) ([]*trip.Trip, error) {
	var models []tripDatamodel.Trip
	err := r.db.WithContext(ctx).
		Order("start_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, models)
}

func (r *Repository) UpdateTrip(ctx context.Context, t *trip.Trip) error {
	model := trip.ToDataModel(t)
	result := r.db.WithContext(ctx).
		Model(&tripDatamodel.Trip{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"origin":                model.Origin,
			"destination":           model.Destination,
			"start_date":            model.StartDate,
			"end_date":              model.EndDate,
			"reason":                model.Reason,
			"estimated_value_cents": model.EstimatedValue,
			"cost_center":           model.CostCenter,
			"hotel_info":            model.HotelInfo,
			"updated_at":            time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrTripNotFound
	}
	return nil
}

// UpdateTripStatus applies the decision only when the stored version still
// matches the one the approver saw. The version bump and the guard share a
// single UPDATE so two concurrent decisions cannot both win.
func (r *Repository) UpdateTripStatus(ctx context.Context, tripID int64, status string, reason *string, expectedVersion int64) (*trip.Trip, error) {
	result := r.db.WithContext(ctx).
		Model(&tripDatamodel.Trip{}).
		Where("id = ? AND version = ?", tripID, expectedVersion).
		Updates(map[string]interface{}{
			"status":        status,
			"status_reason": reason,
			"version":       gorm.Expr("version + 1"),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// distinguish a missing trip from a version conflict
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&tripDatamodel.Trip{}).
			Where("id = ?", tripID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, internal.ErrTripNotFound
		}
		return nil, internal.ErrTripVersionStale
	}

	return r.GetTripByID(ctx, tripID)
}

func (r *Repository) DeleteTrip(ctx context.Context, tripID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", tripID).Delete(&tripDatamodel.ItineraryEvent{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", tripID).Delete(&tripDatamodel.Trip{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrTripNotFound
		}
		return nil
	})
}

func (r *Repository) AddEvent(ctx context.Context, ev *trip.ItineraryEvent) (*trip.ItineraryEvent, error) {
	model := trip.EventToDataModel(ev)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return trip.EventFromDataModel(model), nil
}

func (r *Repository) DeleteEvent(ctx context.Context, tripID, eventID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND trip_id = ?", eventID, tripID).
		Delete(&tripDatamodel.ItineraryEvent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrEventNotFound
	}
	return nil
}

func (r *Repository) listEvents(ctx context.Context, tripID int64) ([]*trip.ItineraryEvent, error) {
	var models []tripDatamodel.ItineraryEvent
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("starts_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	events := make([]*trip.ItineraryEvent, 0, len(models))
	for i := range models {
		events = append(events, trip.EventFromDataModel(&models[i]))
	}
	return events, nil
}

func (r *Repository) hydrate(ctx context.Context, models []tripDatamodel.Trip) ([]*trip.Trip, error) {
	now := time.Now()
	trips := make([]*trip.Trip, 0, len(models))
	for i := range models {
		t := trip.FromDataModel(&models[i], now)
		events, err := r.listEvents(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Events = events
		trips = append(trips, t)
	}
	return trips, nil
}
