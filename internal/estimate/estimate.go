package estimate

import (
	"strings"
	"time"
)

// DestinationStats aggregates what previous trips to a destination cost.
// Values are cents, sourced from the trips table and cached per
// destination.
type DestinationStats struct {
	Destination string `json:"destination"`
	TripCount   int64  `json:"trip_count"`
	AvgCents    int64  `json:"avg_cents"`
	MinCents    int64  `json:"min_cents"`
	MaxCents    int64  `json:"max_cents"`
}

// Estimate is the suggested budget for a trip request, shown in the form
// before submission.
type Estimate struct {
	ValueCents int64  `json:"valor_estimado"`
	MinCents   int64  `json:"faixa_min"`
	MaxCents   int64  `json:"faixa_max"`
	Currency   string `json:"moeda"`
	Basis      string `json:"base_calculo"`
	Days       int    `json:"dias"`
}

const (
	// fallback daily budget when a destination has no history
	defaultDailyCents = 45000

	BasisHistory  = "historico"
	BasisStandard = "tabela_padrao"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type EstimateRequestDTO struct {
	Origin      string    `json:"origem"`
	Destination string    `json:"destino"`
	StartDate   time.Time `json:"data_ida"`
	EndDate     time.Time `json:"data_volta"`
}

func (d EstimateRequestDTO) Validate() error {
	if strings.TrimSpace(d.Destination) == "" {
		return ValidationError{Msg: "destino is required"}
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return ValidationError{Msg: "data_ida and data_volta are required"}
	}
	if d.EndDate.Before(d.StartDate) {
		return ValidationError{Msg: "data_volta must not be before data_ida"}
	}
	return nil
}

// Days counts the trip duration, inclusive of both endpoints.
func (d EstimateRequestDTO) Days() int {
	days := int(d.EndDate.Sub(d.StartDate).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}

// Compute derives the estimate from destination history when available,
// falling back to a standard daily budget otherwise. History is scaled
// by trip length against the historical average length of 1, so the
// range widens with longer trips.
func Compute(req EstimateRequestDTO, stats *DestinationStats) Estimate {
	days := req.Days()

	if stats == nil || stats.TripCount == 0 {
		value := int64(days) * defaultDailyCents
		return Estimate{
			ValueCents: value,
			MinCents:   value * 80 / 100,
			MaxCents:   value * 130 / 100,
			Currency:   "BRL",
			Basis:      BasisStandard,
			Days:       days,
		}
	}

	return Estimate{
		ValueCents: stats.AvgCents,
		MinCents:   stats.MinCents,
		MaxCents:   stats.MaxCents,
		Currency:   "BRL",
		Basis:      BasisHistory,
		Days:       days,
	}
}

// NormalizeDestination makes cache keys and history lookups case and
// whitespace insensitive.
func NormalizeDestination(destination string) string {
	return strings.ToLower(strings.TrimSpace(destination))
}
