// Package taint owns the per-session trust score: an integer in [0,100]
// that erodes when the agent touches untrusted resources and (optionally)
// recovers on trusted access. The restriction tier is derived functionally
// from the score, never stored on its own.
package taint

import "time"

// Config holds the numeric parameters of one tracker. The values are
// assumed already validated (config.Validate); the tracker only clamps.
type Config struct {
	InitialLevel   int
	PenaltyAmount  int
	RecoveryAmount int
	Floor          int
	Ranges         TierRanges
}

// Tracker is the trust-erosion state machine for a single session.
//
// Mutating operations are not internally synchronized. Callers must
// serialize ApplyPenalty, ApplyRecovery, and Reset per instance; the gate
// orchestrator does this by holding one mutex per session.
type Tracker struct {
	cfg    Config
	level  int
	events []Event
}

// NewTracker creates a tracker at the configured initial level with an
// empty history.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{
		cfg:   cfg,
		level: clamp(cfg.InitialLevel, cfg.Floor, 100),
	}
}

// ApplyPenalty subtracts the configured penalty from the current level,
// clamps to the floor, and appends the resulting event.
func (t *Tracker) ApplyPenalty(reason, resource string) Event {
	return t.apply(KindPenalty, -t.cfg.PenaltyAmount, t.cfg.PenaltyAmount, reason, resource)
}

// ApplyRecovery adds the configured recovery amount, clamped to 100.
// A recovery amount of 0 is a valid configuration (trust never recovers);
// the zero-magnitude event is still appended so every classifier verdict
// stays observable in the history.
func (t *Tracker) ApplyRecovery(reason, resource string) Event {
	return t.apply(KindRecovery, t.cfg.RecoveryAmount, t.cfg.RecoveryAmount, reason, resource)
}

func (t *Tracker) apply(kind EventKind, delta, magnitude int, reason, resource string) Event {
	prev := t.level
	t.level = clamp(prev+delta, t.cfg.Floor, 100)

	ev := Event{
		Timestamp:     time.Now().UTC(),
		Kind:          kind,
		Magnitude:     magnitude,
		Reason:        reason,
		Resource:      resource,
		PreviousLevel: prev,
		NewLevel:      t.level,
		Tier:          ResolveTier(t.level, t.cfg.Ranges),
	}
	t.events = append(t.events, ev)
	return ev
}

// Level returns the current trust level.
func (t *Tracker) Level() int {
	return t.level
}

// Tier resolves the current restriction tier from the level.
func (t *Tracker) Tier() Tier {
	return ResolveTier(t.level, t.cfg.Ranges)
}

// History returns an independent copy of the event list. Mutating the
// returned slice never affects tracker state.
func (t *Tracker) History() []Event {
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// Reset restores the initial level and clears the history. Used between
// independent sessions, not during one.
func (t *Tracker) Reset() {
	t.level = clamp(t.cfg.InitialLevel, t.cfg.Floor, 100)
	t.events = nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
