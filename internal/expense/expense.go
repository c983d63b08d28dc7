package expense

import (
	"time"

	expenseDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/expense"
)

// Expense statuses. Review decisions are guarded on status: only a
// pendente expense may be approved or rejected.
const (
	StatusPendente  = "pendente"
	StatusAprovado  = "aprovado"
	StatusReprovado = "reprovado"
)

// Expense types accepted by the form.
const (
	TypeTransporte  = "transporte"
	TypeHospedagem  = "hospedagem"
	TypeAlimentacao = "alimentacao"
	TypeOutros      = "outros"
)

type Expense struct {
	ID              int64      `json:"id"`
	TripID          int64      `json:"viagem_id"`
	UserID          int64      `json:"user_id"`
	Type            string     `json:"tipo"`
	AmountCents     int64      `json:"valor"`
	ExpenseDate     time.Time  `json:"data"`
	Description     string     `json:"descricao"`
	ReceiptURL      *string    `json:"url_recibo,omitempty"`
	ReceiptFileName *string    `json:"nome_recibo,omitempty"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"justificativa_reprovacao,omitempty"`
	ReviewedBy      *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (e *Expense) IsPending() bool {
	return e.Status == StatusPendente
}

// CanBeReviewed guards the review state machine.
func (e *Expense) CanBeReviewed() bool {
	return e.Status == StatusPendente
}

// CanBeEditedBy reports whether the owner may still change the expense.
// Approved expenses are immutable; rejected ones may be corrected and
// resubmitted.
func (e *Expense) CanBeEditedBy(userID int64) bool {
	return e.UserID == userID && e.Status != StatusAprovado
}

func IsValidType(t string) bool {
	switch t {
	case TypeTransporte, TypeHospedagem, TypeAlimentacao, TypeOutros:
		return true
	}
	return false
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:              e.ID,
		TripID:          e.TripID,
		UserID:          e.UserID,
		Type:            e.Type,
		AmountCents:     e.AmountCents,
		ExpenseDate:     e.ExpenseDate,
		Description:     e.Description,
		ReceiptURL:      e.ReceiptURL,
		ReceiptFileName: e.ReceiptFileName,
		Status:          e.Status,
		RejectionReason: e.RejectionReason,
		ReviewedBy:      e.ReviewedBy,
		ReviewedAt:      e.ReviewedAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:              e.ID,
		TripID:          e.TripID,
		UserID:          e.UserID,
		Type:            e.Type,
		AmountCents:     e.AmountCents,
		ExpenseDate:     e.ExpenseDate,
		Description:     e.Description,
		ReceiptURL:      e.ReceiptURL,
		ReceiptFileName: e.ReceiptFileName,
		Status:          e.Status,
		RejectionReason: e.RejectionReason,
		ReviewedBy:      e.ReviewedBy,
		ReviewedAt:      e.ReviewedAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
