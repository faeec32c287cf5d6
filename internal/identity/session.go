// Package identity generates session identifiers for per-session trackers.
package identity

import (
	"time"

	"github.com/google/uuid"
)

// Session ties a tracker instance to the agent session it serves.
type Session struct {
	ID        string    `json:"session_id"`
	AgentID   string    `json:"agent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates a session with a generated ID.
func NewSession(agentID string) *Session {
	return &Session{
		ID:        NewSessionID(),
		AgentID:   agentID,
		CreatedAt: time.Now().UTC(),
	}
}

// NewSessionID returns a fresh unique session identifier.
func NewSessionID() string {
	return "sess-" + uuid.NewString()
}
