package clawtaint

import (
	"fmt"

	"github.com/ed-dc/ClawTaint/internal/gate"
)

// Action describes what a tool intends to do.
type Action struct {
	SessionID string         // optional: overrides the client's default session
	Source    string         // action source name: "shell", "web_fetch", "browser"
	Payload   map[string]any // tool input: "url", "command", free-text fields
}

// Result is the gate's decision for one action.
type Result struct {
	SessionID string
	Decision  string // allow | block | observe
	Trust     string // trusted | untrusted | invalid | none
	Domain    string
	Level     int
	Tier      string
	Reason    string
}

// Allowed reports whether the action may proceed. Observed actions (no
// governed command present) count as allowed.
func (r Result) Allowed() bool {
	return r.Decision != "block"
}

// Status is a point-in-time snapshot of a session's trust state.
type Status struct {
	SessionID string
	Level     int
	Tier      string
	Events    int
}

// BlockedError is returned by wrapped tools when the gate denies a
// command.
type BlockedError struct {
	Action Action
	Result Result
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("clawtaint blocked (%s tier): %s", e.Result.Tier, e.Result.Reason)
}

func toResult(out gate.Outcome) Result {
	return Result{
		SessionID: out.SessionID,
		Decision:  out.Decision(),
		Trust:     out.Trust,
		Domain:    out.Domain,
		Level:     out.Level,
		Tier:      out.Tier.String(),
		Reason:    out.Reason,
	}
}
