package trip

import (
	"sort"
	"time"

	tripDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/trip"
)

// Stored trip statuses. Completion is never stored: it is derived at read
// time from status + end date, see DeriveLifecycle.
const (
	StatusEmAnalise = "em_analise"
	StatusAprovado  = "aprovado"
	StatusReprovado = "reprovado"

	// LifecycleConcluida is a derived, read-only lifecycle value.
	LifecycleConcluida = "concluida"
)

// Itinerary event types.
const (
	EventTypeFlight   = "flight"
	EventTypeHotel    = "hotel"
	EventTypeMeeting  = "meeting"
	EventTypeTransfer = "transfer"
)

// UpcomingLimit caps the dashboard's upcoming-trips selection.
const UpcomingLimit = 5

type Trip struct {
	ID             int64             `json:"id"`
	RequesterID    int64             `json:"requester_id"`
	Origin         string            `json:"origem"`
	Destination    string            `json:"destino"`
	StartDate      time.Time         `json:"data_ida"`
	EndDate        time.Time         `json:"data_volta"`
	Reason         string            `json:"motivo"`
	Status         string            `json:"status"`
	StatusReason   *string           `json:"justificativa,omitempty"`
	Lifecycle      string            `json:"lifecycle"`
	EstimatedValue int64             `json:"valor_estimado"`
	CostCenter     string            `json:"centro_custo"`
	HotelInfo      *string           `json:"hotel_info,omitempty"`
	Version        int64             `json:"version"`
	Events         []*ItineraryEvent `json:"eventos"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type ItineraryEvent struct {
	ID          int64     `json:"id"`
	TripID      int64     `json:"viagem_id"`
	Type        string    `json:"tipo"`
	Title       string    `json:"titulo"`
	StartsAt    time.Time `json:"inicio"`
	Location    string    `json:"local"`
	Description string    `json:"descricao"`
}

// DeriveLifecycle is the single source of the "concluida" virtual state.
// Every view of a trip goes through here; the value is never persisted.
func DeriveLifecycle(status string, endDate, now time.Time) string {
	if status == StatusAprovado && endDate.Before(now) {
		return LifecycleConcluida
	}
	return status
}

func (t *Trip) IsPending() bool {
	return t.Status == StatusEmAnalise
}

// CanBeEdited reports whether the traveler may still change core fields.
func (t *Trip) CanBeEdited() bool {
	return t.Status == StatusEmAnalise
}

// CanTransitionTo guards the approval state machine: only a pending trip
// may be approved or rejected.
func (t *Trip) CanTransitionTo(status string) bool {
	if t.Status != StatusEmAnalise {
		return false
	}
	return status == StatusAprovado || status == StatusReprovado
}

// IsUpcoming selects trips for the dashboard: anything still pending is
// shown regardless of date, otherwise the trip must not have ended yet.
func (t *Trip) IsUpcoming(now time.Time) bool {
	return t.IsPending() || t.EndDate.After(now)
}

// SelectUpcoming filters, sorts by start date ascending and truncates to
// UpcomingLimit.
func SelectUpcoming(trips []*Trip, now time.Time) []*Trip {
	upcoming := make([]*Trip, 0, len(trips))
	for _, t := range trips {
		if t.IsUpcoming(now) {
			upcoming = append(upcoming, t)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartDate.Before(upcoming[j].StartDate)
	})

	if len(upcoming) > UpcomingLimit {
		upcoming = upcoming[:UpcomingLimit]
	}
	return upcoming
}

// SortEvents orders itinerary events by start time, earliest first.
func SortEvents(events []*ItineraryEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
}

func IsValidEventType(t string) bool {
	switch t {
	case EventTypeFlight, EventTypeHotel, EventTypeMeeting, EventTypeTransfer:
		return true
	}
	return false
}

func ToDataModel(t *Trip) *tripDatamodel.Trip {
	return &tripDatamodel.Trip{
		ID:             t.ID,
		RequesterID:    t.RequesterID,
		Origin:         t.Origin,
		Destination:    t.Destination,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		Reason:         t.Reason,
		Status:         t.Status,
		StatusReason:   t.StatusReason,
		EstimatedValue: t.EstimatedValue,
		CostCenter:     t.CostCenter,
		HotelInfo:      t.HotelInfo,
		Version:        t.Version,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func FromDataModel(t *tripDatamodel.Trip, now time.Time) *Trip {
	return &Trip{
		ID:             t.ID,
		RequesterID:    t.RequesterID,
		Origin:         t.Origin,
		Destination:    t.Destination,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		Reason:         t.Reason,
		Status:         t.Status,
		StatusReason:   t.StatusReason,
		Lifecycle:      DeriveLifecycle(t.Status, t.EndDate, now),
		EstimatedValue: t.EstimatedValue,
		CostCenter:     t.CostCenter,
		HotelInfo:      t.HotelInfo,
		Version:        t.Version,
		Events:         []*ItineraryEvent{},
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func EventFromDataModel(e *tripDatamodel.ItineraryEvent) *ItineraryEvent {
	return &ItineraryEvent{
		ID:          e.ID,
		TripID:      e.TripID,
		Type:        e.Type,
		Title:       e.Title,
		StartsAt:    e.StartsAt,
		Location:    e.Location,
		Description: e.Description,
	}
}

func EventToDataModel(e *ItineraryEvent) *tripDatamodel.ItineraryEvent {
	return &tripDatamodel.ItineraryEvent{
		ID:          e.ID,
		TripID:      e.TripID,
		Type:        e.Type,
		Title:       e.Title,
		StartsAt:    e.StartsAt,
		Location:    e.Location,
		Description: e.Description,
	}
}
