// Package notify turns state changes into human readable events. Events are
// kept in a small recent-activity feed and handed to a dispatcher that
// delivers them to external channels without blocking the caller.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds
const (
	KindSystem        = "system"
	KindPartyJoined   = "party_joined"
	KindStatusChanged = "status_changed"
	KindPartySeated   = "party_seated"
	KindTableCreated  = "table_created"
	KindTableRemoved  = "table_removed"
	KindStaff         = "staff"
	KindPromotion     = "promotion"
	KindDirect        = "direct"
)

type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	Recipient string    `json:"recipient,omitempty"`
	At        time.Time `json:"at"`

	// Markdown marks Text as already formatted for the chat channel.
	Markdown bool `json:"-"`
}

// IsDirect reports whether the event targets a single recipient instead of the group.
func (e Event) IsDirect() bool {
	return e.Recipient != ""
}

func newEvent(kind, text string, at time.Time) Event {
	return Event{
		ID:   uuid.NewString(),
		Kind: kind,
		Text: text,
		At:   at,
	}
}
