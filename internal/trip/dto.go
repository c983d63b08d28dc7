package trip

import (
	"strings"
	"time"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type EventDTO struct {
	Type        string    `json:"tipo"`
	Title       string    `json:"titulo"`
	StartsAt    time.Time `json:"inicio"`
	Location    string    `json:"local"`
	Description string    `json:"descricao"`
}

func (d EventDTO) Validate() error {
	if !IsValidEventType(d.Type) {
		return ValidationError{Msg: "tipo must be one of flight, hotel, meeting, transfer"}
	}
	if strings.TrimSpace(d.Title) == "" {
		return ValidationError{Msg: "titulo is required"}
	}
	if d.StartsAt.IsZero() {
		return ValidationError{Msg: "inicio is required"}
	}
	return nil
}

// CreateTripDTO carries the merged payload of the multi step request form:
// core trip fields plus the optional itinerary drafted alongside it.
type CreateTripDTO struct {
	Origin         string     `json:"origem"`
	Destination    string     `json:"destino"`
	StartDate      time.Time  `json:"data_ida"`
	EndDate        time.Time  `json:"data_volta"`
	Reason         string     `json:"motivo"`
	EstimatedValue int64      `json:"valor_estimado"`
	CostCenter     string     `json:"centro_custo"`
	HotelInfo      *string    `json:"hotel_info"`
	Events         []EventDTO `json:"eventos"`
}

func (d CreateTripDTO) Validate() error {
	if strings.TrimSpace(d.Origin) == "" {
		return ValidationError{Msg: "origem is required"}
	}
	if strings.TrimSpace(d.Destination) == "" {
		return ValidationError{Msg: "destino is required"}
	}
	if strings.TrimSpace(d.Reason) == "" {
		return ValidationError{Msg: "motivo is required"}
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return ValidationError{Msg: "data_ida and data_volta are required"}
	}
	if d.EndDate.Before(d.StartDate) {
		return ValidationError{Msg: "data_volta must not be before data_ida"}
	}
	if d.EstimatedValue < 0 {
		return ValidationError{Msg: "valor_estimado must not be negative"}
	}
	for _, ev := range d.Events {
		if err := ev.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateTripDTO holds the traveler editable fields. Nil means keep the
// current value.
type UpdateTripDTO struct {
	Origin         *string    `json:"origem"`
	Destination    *string    `json:"destino"`
	StartDate      *time.Time `json:"data_ida"`
	EndDate        *time.Time `json:"data_volta"`
	Reason         *string    `json:"motivo"`
	EstimatedValue *int64     `json:"valor_estimado"`
	CostCenter     *string    `json:"centro_custo"`
	HotelInfo      *string    `json:"hotel_info"`
}

func (d UpdateTripDTO) Validate() error {
	if d.Origin != nil && strings.TrimSpace(*d.Origin) == "" {
		return ValidationError{Msg: "origem must not be empty"}
	}
	if d.Destination != nil && strings.TrimSpace(*d.Destination) == "" {
		return ValidationError{Msg: "destino must not be empty"}
	}
	if d.Reason != nil && strings.TrimSpace(*d.Reason) == "" {
		return ValidationError{Msg: "motivo must not be empty"}
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return ValidationError{Msg: "data_volta must not be before data_ida"}
	}
	if d.EstimatedValue != nil && *d.EstimatedValue < 0 {
		return ValidationError{Msg: "valor_estimado must not be negative"}
	}
	return nil
}

// Apply merges the patch into the trip. Date checks against the stored
// counterpart happen here because only one side may be patched.
func (d UpdateTripDTO) Apply(t *Trip) error {
	start := t.StartDate
	end := t.EndDate
	if d.StartDate != nil {
		start = *d.StartDate
	}
	if d.EndDate != nil {
		end = *d.EndDate
	}
	if end.Before(start) {
		return ValidationError{Msg: "data_volta must not be before data_ida"}
	}

	if d.Origin != nil {
		t.Origin = *d.Origin
	}
	if d.Destination != nil {
		t.Destination = *d.Destination
	}
	t.StartDate = start
	t.EndDate = end
	if d.Reason != nil {
		t.Reason = *d.Reason
	}
	if d.EstimatedValue != nil {
		t.EstimatedValue = *d.EstimatedValue
	}
	if d.CostCenter != nil {
		t.CostCenter = *d.CostCenter
	}
	if d.HotelInfo != nil {
		t.HotelInfo = d.HotelInfo
	}
	return nil
}

// UpdateStatusDTO drives the approval decision. Version implements the
// optimistic concurrency check: it must match the stored row or the
// request is rejected as stale.
type UpdateStatusDTO struct {
	Status        string `json:"status"`
	Justification string `json:"justificativa"`
	Version       int64  `json:"version"`
}

func (d UpdateStatusDTO) Validate() error {
	if d.Status != StatusAprovado && d.Status != StatusReprovado {
		return ValidationError{Msg: "status must be aprovado or reprovado"}
	}
	if d.Status == StatusReprovado && strings.TrimSpace(d.Justification) == "" {
		return ValidationError{Msg: "justificativa is required when rejecting"}
	}
	if d.Version < 1 {
		return ValidationError{Msg: "version is required"}
	}
	return nil
}
