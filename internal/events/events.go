// Package events carries the human-readable notifications emitted while a
// directory is organized. The engine publishes through the Sink interface
// and stays unaware of any concrete logging setup.
package events

import (
	"fmt"
	"slices"
)

// Severity classifies an event for display and log routing.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String returns the lowercase severity label.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Event is a single notification about one step of an organize pass.
type Event struct {
	Severity Severity
	Message  string
}

// Sink receives events in the order they happen. The engine publishes from a
// single goroutine, so implementations need no internal locking for that use.
type Sink interface {
	Publish(Event)
}

// Emit formats a message and publishes it at severity. A nil sink drops the
// event.
func Emit(sink Sink, severity Severity, format string, args ...any) {
	if sink == nil {
		return
	}
	sink.Publish(Event{Severity: severity, Message: fmt.Sprintf(format, args...)})
}

// Infof publishes an informational event.
func Infof(sink Sink, format string, args ...any) {
	Emit(sink, Info, format, args...)
}

// Warningf publishes a warning event.
func Warningf(sink Sink, format string, args ...any) {
	Emit(sink, Warning, format, args...)
}

// Errorf publishes an error event.
func Errorf(sink Sink, format string, args ...any) {
	Emit(sink, Error, format, args...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}

// Collector retains events in publish order. Useful in tests and anywhere a
// pass should be summarized after the fact.
type Collector struct {
	events []Event
}

func (c *Collector) Publish(evt Event) {
	c.events = append(c.events, evt)
}

// Events returns a copy of the collected events.
func (c *Collector) Events() []Event {
	return slices.Clone(c.events)
}

// Messages returns the collected message texts in publish order.
func (c *Collector) Messages() []string {
	out := make([]string, len(c.events))
	for i, evt := range c.events {
		out[i] = evt.Message
	}
	return out
}
