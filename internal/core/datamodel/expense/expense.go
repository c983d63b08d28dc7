package expense

import "time"

// Expense is the persistence model for a reimbursable line item of a trip.
type Expense struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	TripID          int64      `json:"viagem_id" gorm:"column:trip_id;not null;index"`
	UserID          int64      `json:"user_id" gorm:"column:user_id;not null"`
	Type            string     `json:"tipo" gorm:"column:expense_type;not null"`
	AmountCents     int64      `json:"valor" gorm:"column:amount_cents;not null"`
	ExpenseDate     time.Time  `json:"data" gorm:"column:expense_date;type:date;not null"`
	Description     string     `json:"descricao" gorm:"column:description;not null"`
	ReceiptURL      *string    `json:"url_recibo,omitempty" gorm:"column:receipt_url"`
	ReceiptFileName *string    `json:"nome_recibo,omitempty" gorm:"column:receipt_filename"`
	Status          string     `json:"status" gorm:"column:status;default:pendente"`
	RejectionReason *string    `json:"justificativa_reprovacao,omitempty" gorm:"column:rejection_reason"`
	ReviewedBy      *int64     `json:"reviewed_by,omitempty" gorm:"column:reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty" gorm:"column:reviewed_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Expense) TableName() string {
	return "expenses"
}
