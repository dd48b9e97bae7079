// Package event carries record change notifications between the mock
// server's store handlers, its simulator and its websocket hub without
// those components depending on each other.
package event

import (
	"time"

	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/realtime"
)

// Event types share the wire names the dashboard listens for.
const (
	TypeRecordCreated = realtime.WireCreated
	TypeRecordUpdated = realtime.WireUpdated
)

// Event is implemented by everything published on a Bus.
type Event interface {
	// EventType returns the wire name, e.g. "client:created".
	EventType() string
	Timestamp() time.Time
}

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{eventType: eventType, timestamp: time.Now()}
}

// RecordEvent announces that a record was created or updated.
type RecordEvent struct {
	baseEvent
	Record model.Record
}

// NewRecordCreated creates a client:created event.
func NewRecordCreated(r model.Record) RecordEvent {
	return RecordEvent{baseEvent: newBaseEvent(TypeRecordCreated), Record: r}
}

// NewRecordUpdated creates a client:updated event.
func NewRecordUpdated(r model.Record) RecordEvent {
	return RecordEvent{baseEvent: newBaseEvent(TypeRecordUpdated), Record: r}
}
