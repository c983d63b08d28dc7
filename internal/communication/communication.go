package communication

import (
	"strings"
	"time"

	communicationDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/communication"
)

// Communication is an announcement pinned to a trip, visible to everyone
// who can see the trip.
type Communication struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"viagem_id"`
	AuthorID  int64     `json:"author_id"`
	Title     string    `json:"titulo"`
	Body      string    `json:"mensagem"`
	CreatedAt time.Time `json:"created_at"`
}

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type CreateCommunicationDTO struct {
	Title string `json:"titulo"`
	Body  string `json:"mensagem"`
}

func (d CreateCommunicationDTO) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ValidationError{Msg: "titulo is required"}
	}
	if strings.TrimSpace(d.Body) == "" {
		return ValidationError{Msg: "mensagem is required"}
	}
	return nil
}

func ToDataModel(c *Communication) *communicationDatamodel.Communication {
	return &communicationDatamodel.Communication{
		ID:        c.ID,
		TripID:    c.TripID,
		AuthorID:  c.AuthorID,
		Title:     c.Title,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func FromDataModel(c *communicationDatamodel.Communication) *Communication {
	return &Communication{
		ID:        c.ID,
		TripID:    c.TripID,
		AuthorID:  c.AuthorID,
		Title:     c.Title,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
