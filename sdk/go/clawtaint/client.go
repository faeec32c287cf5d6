package clawtaint

import (
	"fmt"

	"github.com/ed-dc/ClawTaint/internal/gate"
	"github.com/ed-dc/ClawTaint/internal/identity"
	"github.com/ed-dc/ClawTaint/internal/taint"
)

// Client holds the gate pipeline for in-process enforcement. Thread-safe
// for concurrent tool calls; taint mutations are serialized per session.
type Client struct {
	cfg  clientConfig
	gate *gate.Gate
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := clientConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.sessionID == "" {
		cfg.sessionID = identity.NewSessionID()
	}

	g, err := gate.New(cfg.configPath)
	if err != nil {
		return nil, fmt.Errorf("clawtaint: %w", err)
	}
	return &Client{cfg: cfg, gate: g}, nil
}

// Handle runs one action through the gate and returns the decision
// without executing anything.
func (c *Client) Handle(action Action) Result {
	out := c.gate.HandleAction(gate.Action{
		SessionID: c.sessionFor(action),
		Source:    action.Source,
		Payload:   action.Payload,
	})
	return toResult(out)
}

// Status reports the current trust state of the client's default session.
func (c *Client) Status() Status {
	st, ok := c.gate.SessionStatus(c.cfg.sessionID)
	if !ok {
		// Session untouched so far; report the configured initial state.
		cfg := c.gate.Config()
		return Status{
			SessionID: c.cfg.sessionID,
			Level:     cfg.InitialLevel,
			Tier:      taint.ResolveTier(cfg.InitialLevel, cfg.Tiers).String(),
		}
	}
	return Status{
		SessionID: st.SessionID,
		Level:     st.Level,
		Tier:      st.Tier.String(),
		Events:    st.Events,
	}
}

// Reset restores the client's default session to its initial trust level.
func (c *Client) Reset() {
	c.gate.ResetSession(c.cfg.sessionID)
}

// Close releases the gate's audit log, if one is configured.
func (c *Client) Close() error {
	return c.gate.Close()
}

func (c *Client) sessionFor(a Action) string {
	if a.SessionID != "" {
		return a.SessionID
	}
	return c.cfg.sessionID
}
