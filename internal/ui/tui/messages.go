// Package tui provides a Bubble Tea-based terminal UI for topology deployment.
package tui

import "github.com/imamik/psclink/internal/provisioning"

// PhaseMsg reports progress of a provisioning phase.
type PhaseMsg struct {
	Phase string
	Done  bool
	Err   error
}

// ResourceMsg carries a resource or diagnostic event from the engine.
type ResourceMsg struct {
	Event provisioning.Event
}

// LogMsg carries a console line written by a phase.
type LogMsg struct {
	Line string
}

// OutputsMsg carries the stack outputs once the update finished.
type OutputsMsg struct {
	Outputs map[string]any
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
