package communication

import (
	"context"
	"fmt"

	"github.com/corpotravel/trip-management/internal/core/events"
	"github.com/corpotravel/trip-management/internal/trip"
	"github.com/corpotravel/trip-management/pkg/logger"
)

// Subscriber turns workflow decisions into trip announcements so the
// traveler sees the outcome without polling the trip itself.
type Subscriber struct {
	repo RepositoryAPI
}

func NewSubscriber(repo RepositoryAPI) *Subscriber {
	return &Subscriber{repo: repo}
}

func (s *Subscriber) Register(bus *events.EventBus) {
	bus.Subscribe(events.TripStatusChangedEvent, s.onTripStatusChanged)
	bus.Subscribe(events.ExpenseReviewedEvent, s.onExpenseReviewed)
}

func (s *Subscriber) onTripStatusChanged(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	tripID := asInt64(data["trip_id"])
	approverID := asInt64(data["approver_id"])
	newStatus, _ := data["new_status"].(string)
	reason, _ := data["reason"].(string)

	title := "Viagem aprovada"
	body := "Sua solicitação de viagem foi aprovada."
	if newStatus == trip.StatusReprovado {
		title = "Viagem reprovada"
		body = "Sua solicitação de viagem foi reprovada."
		if reason != "" {
			body += " Justificativa: " + reason
		}
	}

	_, err := s.repo.CreateCommunication(ctx, &Communication{
		TripID:   tripID,
		AuthorID: approverID,
		Title:    title,
		Body:     body,
	})
	if err != nil {
		logger.From(ctx).Error("failed to record trip decision announcement",
			"trip_id", tripID, "error", err)
		return err
	}
	return nil
}

func (s *Subscriber) onExpenseReviewed(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	tripID := asInt64(data["trip_id"])
	reviewerID := asInt64(data["reviewer_id"])
	expenseID := asInt64(data["expense_id"])
	status, _ := data["status"].(string)
	reason, _ := data["reason"].(string)

	title := "Despesa aprovada"
	body := fmt.Sprintf("A despesa #%d foi aprovada.", expenseID)
	if status == "reprovado" {
		title = "Despesa reprovada"
		body = fmt.Sprintf("A despesa #%d foi reprovada.", expenseID)
		if reason != "" {
			body += " Justificativa: " + reason
		}
	}

	_, err := s.repo.CreateCommunication(ctx, &Communication{
		TripID:   tripID,
		AuthorID: reviewerID,
		Title:    title,
		Body:     body,
	})
	if err != nil {
		logger.From(ctx).Error("failed to record expense decision announcement",
			"trip_id", tripID, "expense_id", expenseID, "error", err)
		return err
	}
	return nil
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
