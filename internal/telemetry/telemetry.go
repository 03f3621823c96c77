// Package telemetry defines the outward-facing instrumentation contracts.
// Everything here is fire-and-forget: a sink that fails must never affect
// the caller's control flow.
package telemetry

import "log"

// Sink receives wizard events: one per dispatched action plus one per
// observed state-field change
type Sink interface {
	Record(eventType, name string, payload map[string]any)
}

// ErrorSink receives unexpected failures with enough context to triage
type ErrorSink interface {
	Report(context string, err error, metadata map[string]any)
}

// NopSink discards everything
type NopSink struct{}

func (NopSink) Record(eventType, name string, payload map[string]any) {}

// NopErrorSink discards everything
type NopErrorSink struct{}

func (NopErrorSink) Report(context string, err error, metadata map[string]any) {}

// LogSink writes events to the process log
type LogSink struct{}

func (LogSink) Record(eventType, name string, payload map[string]any) {
	log.Printf("event %s/%s: %v", eventType, name, payload)
}

// LogErrorSink writes errors to the process log
type LogErrorSink struct{}

func (LogErrorSink) Report(context string, err error, metadata map[string]any) {
	log.Printf("error in %s: %v (%v)", context, err, metadata)
}
