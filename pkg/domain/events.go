package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPhaseStart   EventType = "phase_start"
	EventPhaseEnd     EventType = "phase_end"
	EventCommandStart EventType = "command_start"
	EventCommandEnd   EventType = "command_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// PhaseEvent represents entry or exit from a phase.
type PhaseEvent struct {
	EventBase
	Phase    PhaseName     `json:"phase"`
	Status   Status        `json:"status,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// CommandEvent represents an external command execution.
type CommandEvent struct {
	EventBase
	Phase    PhaseName     `json:"phase"`
	Command  Command       `json:"command"`
	ExitCode int           `json:"exit_code,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for bootstrapper observability.
type LifecycleHooks struct {
	OnPhaseStart   func(context.Context, *PhaseEvent)
	OnPhaseEnd     func(context.Context, *PhaseEvent)
	OnCommandStart func(context.Context, *CommandEvent)
	OnCommandEnd   func(context.Context, *CommandEvent)
}

// ChainHooks returns hooks that call every non-nil callback of hs in order.
func ChainHooks(hs ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPhaseStart: func(ctx context.Context, e *PhaseEvent) {
			for _, h := range hs {
				if h.OnPhaseStart != nil {
					h.OnPhaseStart(ctx, e)
				}
			}
		},
		OnPhaseEnd: func(ctx context.Context, e *PhaseEvent) {
			for _, h := range hs {
				if h.OnPhaseEnd != nil {
					h.OnPhaseEnd(ctx, e)
				}
			}
		},
		OnCommandStart: func(ctx context.Context, e *CommandEvent) {
			for _, h := range hs {
				if h.OnCommandStart != nil {
					h.OnCommandStart(ctx, e)
				}
			}
		},
		OnCommandEnd: func(ctx context.Context, e *CommandEvent) {
			for _, h := range hs {
				if h.OnCommandEnd != nil {
					h.OnCommandEnd(ctx, e)
				}
			}
		},
	}
}
