package client

import (
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
)

// EventType identifies the kind of event occurring during client operations.
type EventType string

const (
	// EventRequestStart fires before a vendor call begins.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires after a vendor call succeeds.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when a vendor call fails. Enhancement
	// failures are reported here even though Generate carries on.
	EventRequestError EventType = "request_error"
)

// Operations reported in events.
const (
	OperationEnhance  = "enhance"
	OperationGenerate = "generate"
)

// Event represents an observable occurrence during client operations.
type Event struct {
	Type EventType

	// RequestID correlates the events of one Generate call.
	RequestID string

	// Operation is OperationEnhance or OperationGenerate.
	Operation string

	Provider ai.Provider

	// Duration is the elapsed time for completed or failed calls.
	Duration time.Duration

	Error error

	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
	}
}
