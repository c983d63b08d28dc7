package extraction

import (
	"strings"
	"time"
)

// ExtractedReceipt is the structured reading of a receipt image, used to
// prefill the expense form. Fields the model could not read stay zero.
type ExtractedReceipt struct {
	Type        string     `json:"tipo,omitempty"`
	AmountCents int64      `json:"valor,omitempty"`
	Date        *time.Time `json:"data,omitempty"`
	Description string     `json:"descricao,omitempty"`
	Merchant    string     `json:"estabelecimento,omitempty"`
}

// Result wraps an extraction attempt. Extraction never blocks expense
// submission: a failed read comes back with Success=false and the form
// stays manual.
type Result struct {
	Success bool              `json:"success"`
	Receipt *ExtractedReceipt `json:"dados,omitempty"`
	Message string            `json:"message,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type ExtractRequestDTO struct {
	ReceiptURL string `json:"url_recibo"`
}

func (d ExtractRequestDTO) Validate() error {
	url := strings.TrimSpace(d.ReceiptURL)
	if url == "" {
		return ValidationError{Msg: "url_recibo is required"}
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return ValidationError{Msg: "url_recibo must be an http(s) URL"}
	}
	return nil
}
