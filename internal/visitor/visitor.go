package visitor

import (
	"time"
)

// Profile is the visitor-facing view of a profile row.
type Profile struct {
	UserID            int64      `json:"user_id"`
	TripID            *int64     `json:"viagem_id,omitempty"`
	Document          string     `json:"documento"`
	BirthDate         *time.Time `json:"data_nascimento,omitempty"`
	Phone             string     `json:"telefone"`
	EmergencyContact  string     `json:"contato_emergencia"`
	Allergies         string     `json:"alergias"`
	MedicalConditions string     `json:"condicoes_medicas"`
	TermsAccepted     bool       `json:"termos_aceitos"`
}

// Organizer identifies the employee responsible for the visitor's trip.
type Organizer struct {
	ID       int64  `json:"id"`
	FullName string `json:"nome"`
	Email    string `json:"email"`
}
