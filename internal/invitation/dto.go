package invitation

import (
	"net/mail"
	"strings"
	"time"
)

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreateInvitationDTO struct {
	Email    string `json:"email"`
	Document string `json:"cpf"`
}

func (d CreateInvitationDTO) Validate() error {
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return ValidationError{Msg: "a valid email is required"}
	}
	if !isValidDocument(d.Document) {
		return ValidationError{Msg: "cpf must contain 11 digits"}
	}
	return nil
}

// RedeemInvitationDTO is the payload of the public visitor registration.
// The medical fields feed the visitor profile shown to trip organizers.
type RedeemInvitationDTO struct {
	Token             string     `json:"token"`
	Email             string     `json:"email"`
	Document          string     `json:"cpf"`
	FullName          string     `json:"nome_completo"`
	Password          string     `json:"password"`
	BirthDate         *time.Time `json:"data_nascimento"`
	Phone             string     `json:"telefone"`
	EmergencyContact  string     `json:"contato_emergencia"`
	Allergies         string     `json:"alergias"`
	MedicalConditions string     `json:"condicoes_medicas"`
}

func (d RedeemInvitationDTO) Validate() error {
	if strings.TrimSpace(d.Token) == "" {
		return ValidationError{Msg: "token is required"}
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return ValidationError{Msg: "a valid email is required"}
	}
	if !isValidDocument(d.Document) {
		return ValidationError{Msg: "cpf must contain 11 digits"}
	}
	if strings.TrimSpace(d.FullName) == "" {
		return ValidationError{Msg: "nome_completo is required"}
	}
	if len(d.Password) < 8 {
		return ValidationError{Msg: "password must be at least 8 characters"}
	}
	return nil
}

// isValidDocument accepts a CPF as 11 digits, with or without the usual
// punctuation.
func isValidDocument(doc string) bool {
	digits := 0
	for _, r := range doc {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == '-':
		default:
			return false
		}
	}
	return digits == 11
}

// NormalizeDocument strips punctuation so stored documents compare equal.
func NormalizeDocument(doc string) string {
	var b strings.Builder
	for _, r := range doc {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
