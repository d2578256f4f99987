package event

import "time"

type Type string

const (
	TypeChecklistCreated  Type = "checklist.created"
	TypeChecklistDeleted  Type = "checklist.deleted"
	TypeItemCreated       Type = "item.created"
	TypeItemStatusChanged Type = "item.status_changed"
	TypeItemRenamed       Type = "item.renamed"
	TypeItemDeleted       Type = "item.deleted"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(e Event)
}

type Bus interface {
	Publisher
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(Event) {}
