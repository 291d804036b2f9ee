// ABOUTME: Lifecycle events emitted by the web build runner.
// ABOUTME: Events feed the run log, the progress UI, and CLI logging through one callback.
package webbuild

import "time"

// EventType identifies the kind of pipeline lifecycle event.
type EventType string

const (
	EventPipelineStarted   EventType = "pipeline.started"
	EventPipelineCompleted EventType = "pipeline.completed"
	EventPipelineFailed    EventType = "pipeline.failed"
	EventStepStarted       EventType = "step.started"
	EventStepCompleted     EventType = "step.completed"
	EventStepSkipped       EventType = "step.skipped"
	EventStepFailed        EventType = "step.failed"
	EventStepOutput        EventType = "step.output"
)

// Event is one lifecycle event.
type Event struct {
	Type      EventType      `json:"type"`
	Step      Step           `json:"step,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventHandler receives events synchronously, in order.
type EventHandler func(Event)

// MultiHandler fans an event out to several handlers; nil entries are skipped.
func MultiHandler(handlers ...EventHandler) EventHandler {
	return func(evt Event) {
		for _, h := range handlers {
			if h != nil {
				h(evt)
			}
		}
	}
}
