package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to the ledger state
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	// Source names the component that raised the event, e.g. "Dashboard"
	Source() string
}

// BaseDomainEvent is embedded by concrete events
type BaseDomainEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	SourceName string    `json:"source"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID    { return e.ID }
func (e *BaseDomainEvent) EventType() string     { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }
func (e *BaseDomainEvent) Source() string        { return e.SourceName }

// NewBaseDomainEvent stamps a new event with a random ID and the current UTC time
func NewBaseDomainEvent(eventType, source string) BaseDomainEvent {
	return BaseDomainEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		SourceName: source,
	}
}
