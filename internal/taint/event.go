package taint

import "time"

// EventKind distinguishes the two trust mutations.
type EventKind string

const (
	KindPenalty  EventKind = "penalty"
	KindRecovery EventKind = "recovery"
)

// Event is an immutable record of one trust mutation. Events are appended
// to the tracker's history in call order and never modified afterwards.
type Event struct {
	Timestamp     time.Time `json:"ts"`
	Kind          EventKind `json:"kind"`
	Magnitude     int       `json:"magnitude"`
	Reason        string    `json:"reason"`
	Resource      string    `json:"resource,omitempty"`
	PreviousLevel int       `json:"previous_level"`
	NewLevel      int       `json:"new_level"`
	Tier          Tier      `json:"tier"`
}
