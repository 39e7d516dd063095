package event

import (
	"time"

	"github.com/google/uuid"

	"techradar-api/internal/model"
)

type Type string

const (
	TypeLikeAdded        Type = "like.added"
	TypeLikeRemoved      Type = "like.removed"
	TypeEntryCreated     Type = "entry.created"
	TypeEntryUpdated     Type = "entry.updated"
	TypeEntryDeleted     Type = "entry.deleted"
	TypeCommentCreated   Type = "comment.created"
	TypeReferenceCreated Type = "reference.created"
	TypeReferenceDeleted Type = "reference.deleted"
	TypeUserCreated      Type = "user.created"
	TypeUserUpdated      Type = "user.updated"
	TypeUserDeleted      Type = "user.deleted"
)

type Event struct {
	ID        string           `json:"id"`
	Type      Type             `json:"type"`
	Actor     model.AuditActor `json:"actor"`
	Resource  string           `json:"resource,omitempty"`
	Payload   any              `json:"payload,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// New stamps an event with a fresh id and the current UTC time.
func New(t Type, actor model.AuditActor, resource string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Actor:     actor,
		Resource:  resource,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}

// Nop drops every event. Services use it when no bus is wired.
type Nop struct{}

func (Nop) Publish(Event) {}

func (Nop) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event)
	return ch, func() { close(ch) }
}
