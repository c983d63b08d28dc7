package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TripStatusChangedEvent  = "trip.status_changed"
	ExpenseReviewedEvent    = "expense.reviewed"
	InvitationRedeemedEvent = "invitation.redeemed"
)

// NewTripStatusChangedEvent is published when an approver moves a trip out
// of em_analise. Subscribers fan the decision out as trip communications.
func NewTripStatusChangedEvent(tripID, approverID int64, oldStatus, newStatus, reason string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      TripStatusChangedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"trip_id":     tripID,
			"approver_id": approverID,
			"old_status":  oldStatus,
			"new_status":  newStatus,
			"reason":      reason,
		},
	}
}

func NewExpenseReviewedEvent(expenseID, tripID, reviewerID int64, status, reason string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      ExpenseReviewedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"expense_id":  expenseID,
			"trip_id":     tripID,
			"reviewer_id": reviewerID,
			"status":      status,
			"reason":      reason,
		},
	}
}

func NewInvitationRedeemedEvent(invitationID, tripID, visitorID int64) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      InvitationRedeemedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"invitation_id": invitationID,
			"trip_id":       tripID,
			"visitor_id":    visitorID,
		},
	}
}
