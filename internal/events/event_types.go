package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/estate-agency/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventInquiryCreated         EventType = "inquiry_created"
	EventInquiryResolved        EventType = "inquiry_resolved"
	EventTransactionCreated     EventType = "transaction_created"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventCatalogChanged         EventType = "catalog_changed"
	EventPromoCodesChanged      EventType = "promo_codes_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, subjectID string, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// InquiryCreatedPayload payload.
type InquiryCreatedPayload struct {
	PropertyID string  `json:"property_id"`
	BuyerID    string  `json:"buyer_id"`
	AgentID    *string `json:"agent_id,omitempty"`
}

// InquiryResolvedPayload payload.
type InquiryResolvedPayload struct {
	Action   domain.InquiryAction `json:"action"`
	OldState domain.InquiryState  `json:"old_state"`
	NewState domain.InquiryState  `json:"new_state"`
}

// TransactionCreatedPayload payload.
type TransactionCreatedPayload struct {
	PropertyID  string          `json:"property_id"`
	BuyerID     *string         `json:"buyer_id,omitempty"`
	AgentID     *string         `json:"agent_id,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
