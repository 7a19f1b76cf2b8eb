// Package events publishes domain events such as new transactions and reached
// goals to interested consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Event types, also used as routing keys.
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
	GoalReached        = "goal.reached"
)

// Event is one domain occurrence scoped to a user.
type Event struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// New stamps an event with the current time.
func New(typ string, userID int64, payload any) Event {
	return Event{Type: typ, UserID: userID, OccurredAt: time.Now().UTC(), Payload: payload}
}

// Encode renders the event as a JSON message body.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Notify publishes e and logs a failure instead of returning it, so that a
// broker outage never fails the request that produced the event.
func Notify(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"event":   e.Type,
			"user_id": e.UserID,
		}).Warn("publish event failed")
	}
}
