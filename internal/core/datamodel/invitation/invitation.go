package invitation

import "time"

// Invitation is the persistence model for a single-use visitor credential.
type Invitation struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	TripID    int64      `json:"viagem_id" gorm:"column:trip_id;not null;index"`
	Email     string     `json:"email" gorm:"column:email;not null"`
	Document  string     `json:"cpf" gorm:"column:document;not null"`
	Token     string     `json:"token" gorm:"column:token;uniqueIndex;not null"`
	Used      bool       `json:"used" gorm:"column:used;default:false"`
	CreatedBy int64      `json:"created_by" gorm:"column:created_by;not null"`
	UsedAt    *time.Time `json:"used_at,omitempty" gorm:"column:used_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Invitation) TableName() string {
	return "invitations"
}
