package communication

import "time"

// Communication is the persistence model for a per-trip announcement.
type Communication struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	TripID    int64     `json:"viagem_id" gorm:"column:trip_id;not null;index"`
	AuthorID  int64     `json:"author_id" gorm:"column:author_id;not null"`
	Title     string    `json:"titulo" gorm:"column:title;not null"`
	Body      string    `json:"mensagem" gorm:"column:body;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Communication) TableName() string {
	return "communications"
}
