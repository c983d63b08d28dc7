package expense

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

type CreateExpenseDTO struct {
	TripID          int64     `json:"viagem_id"`
	Type            string    `json:"tipo"`
	AmountCents     int64     `json:"valor"`
	ExpenseDate     time.Time `json:"data"`
	Description     string    `json:"descricao"`
	ReceiptURL      *string   `json:"url_recibo"`
	ReceiptFileName *string   `json:"nome_recibo"`
}

func (d CreateExpenseDTO) Validate() error {
	if d.TripID <= 0 {
		return ValidationError{Msg: "viagem_id is required"}
	}
	if !IsValidType(d.Type) {
		return ValidationError{Msg: "tipo must be one of transporte, hospedagem, alimentacao, outros"}
	}
	if d.AmountCents <= 0 {
		return ValidationError{Msg: "valor must be greater than zero"}
	}
	if d.ExpenseDate.IsZero() {
		return ValidationError{Msg: "data is required"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return ValidationError{Msg: "descricao is required"}
	}
	return nil
}

// UpdateExpenseDTO patches owner editable fields. Nil keeps the current
// value.
type UpdateExpenseDTO struct {
	Type            *string    `json:"tipo"`
	AmountCents     *int64     `json:"valor"`
	ExpenseDate     *time.Time `json:"data"`
	Description     *string    `json:"descricao"`
	ReceiptURL      *string    `json:"url_recibo"`
	ReceiptFileName *string    `json:"nome_recibo"`
}

func (d UpdateExpenseDTO) Validate() error {
	if d.Type != nil && !IsValidType(*d.Type) {
		return ValidationError{Msg: "tipo must be one of transporte, hospedagem, alimentacao, outros"}
	}
	if d.AmountCents != nil && *d.AmountCents <= 0 {
		return ValidationError{Msg: "valor must be greater than zero"}
	}
	if d.Description != nil && strings.TrimSpace(*d.Description) == "" {
		return ValidationError{Msg: "descricao must not be empty"}
	}
	return nil
}

func (d UpdateExpenseDTO) Apply(e *Expense) {
	if d.Type != nil {
		e.Type = *d.Type
	}
	if d.AmountCents != nil {
		e.AmountCents = *d.AmountCents
	}
	if d.ExpenseDate != nil {
		e.ExpenseDate = *d.ExpenseDate
	}
	if d.Description != nil {
		e.Description = *d.Description
	}
	if d.ReceiptURL != nil {
		e.ReceiptURL = d.ReceiptURL
	}
	if d.ReceiptFileName != nil {
		e.ReceiptFileName = d.ReceiptFileName
	}
}

type ReviewExpenseDTO struct {
	Justification string `json:"justificativa"`
}

func (d ReviewExpenseDTO) ValidateRejection() error {
	if strings.TrimSpace(d.Justification) == "" {
		return ValidationError{Msg: "justificativa is required when rejecting an expense"}
	}
	return nil
}
