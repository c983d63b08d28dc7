package invitation

import (
	"time"

	invitationDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/invitation"
)

// Invitation is a single-use credential that lets an external guest join a
// trip as VISITANTE. The token is returned exactly once, at creation.
type Invitation struct {
	ID        int64      `json:"id"`
	TripID    int64      `json:"viagem_id"`
	Email     string     `json:"email"`
	Document  string     `json:"cpf"`
	Token     string     `json:"token,omitempty"`
	Used      bool       `json:"used"`
	CreatedBy int64      `json:"created_by"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Redact strips the token before an invitation is listed. Only the
// creation response carries it.
func (i *Invitation) Redact() *Invitation {
	cp := *i
	cp.Token = ""
	return &cp
}

// Matches checks the identity pair presented at redemption against the
// one the invitation was issued for.
func (i *Invitation) Matches(email, document string) bool {
	return i.Email == email && i.Document == document
}

func ToDataModel(i *Invitation) *invitationDatamodel.Invitation {
	return &invitationDatamodel.Invitation{
		ID:        i.ID,
		TripID:    i.TripID,
		Email:     i.Email,
		Document:  i.Document,
		Token:     i.Token,
		Used:      i.Used,
		CreatedBy: i.CreatedBy,
		UsedAt:    i.UsedAt,
		CreatedAt: i.CreatedAt,
	}
}

func FromDataModel(i *invitationDatamodel.Invitation) *Invitation {
	return &Invitation{
		ID:        i.ID,
		TripID:    i.TripID,
		Email:     i.Email,
		Document:  i.Document,
		Token:     i.Token,
		Used:      i.Used,
		CreatedBy: i.CreatedBy,
		UsedAt:    i.UsedAt,
		CreatedAt: i.CreatedAt,
	}
}
