package model

import "time"

// Outcome classifies the result of a document mutation shown to the user.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
	OutcomeWarning Outcome = "warning"
	OutcomeNotice  Outcome = "notice"
)

// Phase is the position of the notification state machine.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePending   Phase = "pending"
	PhaseNotifying Phase = "notifying"
)

// Notification is a snapshot of the notification state machine.
// Outcome and Message are only meaningful while Phase is PhaseNotifying.
type Notification struct {
	Phase     Phase     `json:"phase"`
	Outcome   Outcome   `json:"outcome,omitempty"`
	Message   string    `json:"message,omitempty"`
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Open reports whether a notification is currently being surfaced.
func (n Notification) Open() bool { return n.Phase == PhaseNotifying }
