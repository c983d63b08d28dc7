package trip

import "time"

// Trip is the persistence model for a corporate trip request.
type Trip struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	RequesterID    int64     `json:"requester_id" gorm:"column:requester_id;not null"`
	Origin         string    `json:"origem" gorm:"column:origin;not null"`
	Destination    string    `json:"destino" gorm:"column:destination;not null"`
	StartDate      time.Time `json:"data_ida" gorm:"column:start_date;type:date;not null"`
	EndDate        time.Time `json:"data_volta" gorm:"column:end_date;type:date;not null"`
	Reason         string    `json:"motivo" gorm:"column:reason;not null"`
	Status         string    `json:"status" gorm:"column:status;default:em_analise"`
	StatusReason   *string   `json:"justificativa,omitempty" gorm:"column:status_reason"`
	EstimatedValue int64     `json:"valor_estimado" gorm:"column:estimated_value_cents"`
	CostCenter     string    `json:"centro_custo" gorm:"column:cost_center"`
	HotelInfo      *string   `json:"hotel_info,omitempty" gorm:"column:hotel_info"`
	Version        int64     `json:"version" gorm:"column:version;default:1"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Trip) TableName() string {
	return "trips"
}

// ItineraryEvent is one entry of a trip's ordered itinerary.
type ItineraryEvent struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	TripID      int64     `json:"viagem_id" gorm:"column:trip_id;not null;index"`
	Type        string    `json:"tipo" gorm:"column:event_type;not null"`
	Title       string    `json:"titulo" gorm:"column:title;not null"`
	StartsAt    time.Time `json:"inicio" gorm:"column:starts_at;not null"`
	Location    string    `json:"local" gorm:"column:location"`
	Description string    `json:"descricao" gorm:"column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (ItineraryEvent) TableName() string {
	return "itinerary_events"
}
