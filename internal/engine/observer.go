package engine

import "time"

// EventType represents different lifecycle phases of table operations
type EventType string

const (
	EventLoadStart   EventType = "load_start"
	EventLoadEnd     EventType = "load_end"
	EventQueryStart  EventType = "query_start"
	EventQueryEnd    EventType = "query_end"
	EventUpdateStart EventType = "update_start"
	EventUpdateEnd   EventType = "update_end"
)

// Event represents a lifecycle event of a load, query, or bulk update
type Event struct {
	Type      EventType   // Type of event
	OpID      string      // Operation ID for tracing
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Phase-specific data (e.g., row count, thresholds, result)
}

// Observer interface for event subscribers
// Observers receive events at major execution phases
type Observer interface {
	OnEvent(event Event)
}
