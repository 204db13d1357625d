// Package notify turns typed notification events into delivered email.
//
// A Message is created by a triggering action, enqueued on Redis, dequeued by
// the worker, rendered into an email and discarded after send — it is never
// persisted. Per-user opt-outs gate the four subscription-based event types.
package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType identifies which email template and gating rule applies.
type EventType string

const (
	EventApplicationStatus    EventType = "application-status"
	EventDocumentUpdated      EventType = "document-updated"
	EventPaymentDeadline      EventType = "payment-deadline"
	EventWishlistDeadline     EventType = "wishlist-deadline"
	EventWelcome              EventType = "welcome"
	EventSupportRequest       EventType = "support-request"
	EventApplicationSubmitted EventType = "application-submitted"
)

// ParseEventType converts a raw string to an EventType, returning an error
// for unknown values.
func ParseEventType(s string) (EventType, error) {
	et := EventType(s)
	switch et {
	case EventApplicationStatus, EventDocumentUpdated, EventPaymentDeadline,
		EventWishlistDeadline, EventWelcome, EventSupportRequest,
		EventApplicationSubmitted:
		return et, nil
	}
	return "", fmt.Errorf("unknown notification type %q", s)
}

// gatedCategories maps the opt-out-capable event types to the settings
// category they are gated by. Types absent from this map always send.
var gatedCategories = map[EventType]string{
	EventApplicationStatus: "applicationUpdates",
	EventDocumentUpdated:   "documentUpdates",
	EventPaymentDeadline:   "paymentReminders",
	EventWishlistDeadline:  "wishlistReminders",
}

// GateCategory returns the settings category for a gated event type, or
// ok=false when the type is not gated.
func GateCategory(t EventType) (category string, ok bool) {
	category, ok = gatedCategories[t]
	return category, ok
}

// Message is one notification event in flight: the target user, the event
// type, and the type-specific metadata the template renders from.
type Message struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	UserID    string            `json:"userId"`
	Email     string            `json:"email"`
	CreatedAt time.Time         `json:"createdAt"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// NewMessage builds a Message with a fresh id and timestamp.
func NewMessage(t EventType, userID, email string, meta map[string]string) Message {
	return Message{
		ID:        uuid.NewString(),
		Type:      t,
		UserID:    userID,
		Email:     email,
		CreatedAt: time.Now().UTC(),
		Meta:      meta,
	}
}
