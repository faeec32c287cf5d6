// Package gate composes the trust classifier, taint tracker, and
// restriction evaluator into the per-action pipeline: extract a resource
// from the action payload, classify it, apply the taint update, then for
// command-bearing actions evaluate the command at the post-update tier.
//
// The gate owns session lifecycle: one tracker per session ID, created on
// first use. Nothing here is process-global; callers hold a Gate instance.
package gate

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ed-dc/ClawTaint/internal/audit"
	"github.com/ed-dc/ClawTaint/internal/config"
	"github.com/ed-dc/ClawTaint/internal/identity"
	"github.com/ed-dc/ClawTaint/internal/logging"
	"github.com/ed-dc/ClawTaint/internal/rules"
	"github.com/ed-dc/ClawTaint/internal/taint"
	"github.com/ed-dc/ClawTaint/internal/trust"
)

// Action is one intercepted agent operation.
type Action struct {
	SessionID string         `json:"session_id"`
	Source    string         `json:"source"`
	Payload   map[string]any `json:"payload"`
}

// Outcome is the gate's decision for one action.
type Outcome struct {
	SessionID string `json:"session_id"`

	// Resource classification. Trust is one of trusted, untrusted,
	// invalid, none.
	Domain     string       `json:"domain,omitempty"`
	Trust      string       `json:"trust"`
	TaintEvent *taint.Event `json:"taint_event,omitempty"`

	// Post-update trust state.
	Level int        `json:"level"`
	Tier  taint.Tier `json:"tier"`

	// Command evaluation, present only for governed command sources
	// whose payload carried a command.
	CommandEvaluated bool   `json:"command_evaluated"`
	Command          string `json:"command,omitempty"`
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
	MatchedRule      string `json:"matched_rule,omitempty"`
}

// Decision renders the outcome as a decision string for logs and audit.
func (o Outcome) Decision() string {
	if !o.CommandEvaluated {
		return "observe"
	}
	if o.Allowed {
		return "allow"
	}
	return "block"
}

// Err returns a *BlockedError when the outcome blocks a command, nil
// otherwise. Embedders can branch on the typed error instead of fields.
func (o Outcome) Err() error {
	if !o.CommandEvaluated || o.Allowed {
		return nil
	}
	return &BlockedError{
		Command:     o.Command,
		Reason:      o.Reason,
		MatchedRule: o.MatchedRule,
		Tier:        o.Tier,
	}
}

// BlockedError is returned when the gate denies command execution.
type BlockedError struct {
	Command     string
	Reason      string
	MatchedRule string
	Tier        taint.Tier
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("command blocked at %s tier: %s", e.Tier, e.Reason)
}

// session pairs a tracker with the mutex that serializes its mutations.
type session struct {
	mu      sync.Mutex
	tracker *taint.Tracker
}

// Gate is the per-process orchestrator. Safe for concurrent use; taint
// mutations are serialized per session.
type Gate struct {
	mu       sync.RWMutex
	cfg      *config.Config
	cfgHash  string
	cfgPath  string
	cls      *trust.Classifier
	eval     *rules.Evaluator
	sessions sync.Map // session ID → *session
	auditLog *audit.Log
	log      *logrus.Entry
}

// New loads configuration from path (empty = default location, missing =
// built-in defaults) and builds a gate from it.
func New(cfgPath string) (*Gate, error) {
	cfg, hash, err := config.LoadConfigWithHash(cfgPath)
	if err != nil {
		return nil, err
	}
	g, err := NewFromConfig(cfg, hash)
	if err != nil {
		return nil, err
	}
	g.cfgPath = cfgPath
	return g, nil
}

// NewFromConfig builds a gate from an already-validated configuration.
func NewFromConfig(cfg *config.Config, hash string) (*Gate, error) {
	cls, err := trust.NewClassifier(cfg.TrustedDomains)
	if err != nil {
		return nil, fmt.Errorf("failed to compile trust patterns: %w", err)
	}

	var auditLog *audit.Log
	if cfg.AuditLogPath != "" {
		auditLog, err = audit.Open(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit log: %w", err)
		}
	}

	return &Gate{
		cfg:     cfg,
		cfgHash: hash,
		cls:     cls,
		eval: rules.NewEvaluator(rules.Config{
			AlwaysBlocked:     cfg.AlwaysBlocked,
			DangerousCommands: cfg.DangerousCommands,
			SafeCommands:      cfg.SafeCommands,
			GovernedSources:   cfg.GovernedSources,
		}),
		auditLog: auditLog,
		log:      logging.Named("gate"),
	}, nil
}

// HandleAction runs the full pipeline for one intercepted action.
func (g *Gate) HandleAction(a Action) Outcome {
	g.mu.RLock()
	cls := g.cls
	eval := g.eval
	hash := g.cfgHash
	g.mu.RUnlock()

	if a.SessionID == "" {
		a.SessionID = identity.NewSessionID()
	}
	s := g.session(a.SessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := Outcome{SessionID: a.SessionID, Trust: "none"}

	ext := trust.ExtractResource(a.Payload)
	switch ext.Status {
	case trust.Found:
		verdict := cls.Classify(ext.Domain)
		out.Domain = ext.Domain
		if verdict.Trusted {
			out.Trust = "trusted"
			ev := s.tracker.ApplyRecovery(
				fmt.Sprintf("trusted resource %s (pattern %s)", ext.Domain, verdict.MatchedPattern),
				ext.Domain)
			out.TaintEvent = &ev
		} else {
			out.Trust = "untrusted"
			ev := s.tracker.ApplyPenalty(
				fmt.Sprintf("untrusted resource %s", ext.Domain),
				ext.Domain)
			out.TaintEvent = &ev
		}
	case trust.Invalid:
		// A URL was present but unparseable. Fail closed, but keep the
		// cause distinct from a pattern mismatch.
		out.Trust = "invalid"
		ev := s.tracker.ApplyPenalty(
			fmt.Sprintf("unparseable resource identifier %q", ext.Raw), "")
		out.TaintEvent = &ev
	case trust.Absent:
		// No resource in this action; not a trust violation.
	}

	out.Level = s.tracker.Level()
	out.Tier = s.tracker.Tier()

	if eval.IsGovernedSource(a.Source) {
		if command, ok := a.Payload["command"].(string); ok && command != "" {
			res := eval.Evaluate(command, out.Tier)
			out.CommandEvaluated = true
			out.Command = command
			out.Allowed = res.Allowed
			out.Reason = res.Reason
			out.MatchedRule = res.MatchedRule
		}
	}

	g.record(a, out, hash)
	g.log.WithFields(logrus.Fields{
		"session":  a.SessionID,
		"source":   a.Source,
		"trust":    out.Trust,
		"level":    out.Level,
		"tier":     out.Tier.String(),
		"decision": out.Decision(),
	}).Debug("action gated")

	return out
}

// CheckCommand evaluates a command at an explicit tier without touching
// any session state. Dry-run mode.
func (g *Gate) CheckCommand(command string, tier taint.Tier) rules.Result {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.eval.Evaluate(command, tier)
}

// Status is a point-in-time snapshot of one session's trust state.
type Status struct {
	SessionID string     `json:"session_id"`
	Level     int        `json:"level"`
	Tier      taint.Tier `json:"tier"`
	Events    int        `json:"events"`
}

// SessionStatus reports a session's current state. The second return is
// false when the session does not exist yet.
func (g *Gate) SessionStatus(sessionID string) (Status, bool) {
	v, ok := g.sessions.Load(sessionID)
	if !ok {
		return Status{}, false
	}
	s := v.(*session)
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		SessionID: sessionID,
		Level:     s.tracker.Level(),
		Tier:      s.tracker.Tier(),
		Events:    len(s.tracker.History()),
	}, true
}

// History returns a copy of a session's taint events, oldest first.
func (g *Gate) History(sessionID string) []taint.Event {
	v, ok := g.sessions.Load(sessionID)
	if !ok {
		return nil
	}
	s := v.(*session)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.History()
}

// ResetSession restores a session to its initial trust level and clears
// its history. Missing sessions are a no-op.
func (g *Gate) ResetSession(sessionID string) {
	v, ok := g.sessions.Load(sessionID)
	if !ok {
		return
	}
	s := v.(*session)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.Reset()
}

// Reload re-reads the config file and atomically swaps the classifier,
// evaluator, and numeric defaults. Existing sessions keep the tracker
// parameters they were created with; pattern and rule changes take effect
// immediately for all sessions.
func (g *Gate) Reload() error {
	cfg, hash, err := config.LoadConfigWithHash(g.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	cls, err := trust.NewClassifier(cfg.TrustedDomains)
	if err != nil {
		return fmt.Errorf("failed to compile trust patterns: %w", err)
	}

	g.mu.Lock()
	g.cfg = cfg
	g.cfgHash = hash
	g.cls = cls
	g.eval = rules.NewEvaluator(rules.Config{
		AlwaysBlocked:     cfg.AlwaysBlocked,
		DangerousCommands: cfg.DangerousCommands,
		SafeCommands:      cfg.SafeCommands,
		GovernedSources:   cfg.GovernedSources,
	})
	g.mu.Unlock()
	return nil
}

// ConfigHash returns the hash of the active configuration.
func (g *Gate) ConfigHash() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfgHash
}

// Config returns the active configuration.
func (g *Gate) Config() *config.Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg
}

// Close releases the audit log, if any.
func (g *Gate) Close() error {
	if g.auditLog != nil {
		return g.auditLog.Close()
	}
	return nil
}

func (g *Gate) session(id string) *session {
	if v, ok := g.sessions.Load(id); ok {
		return v.(*session)
	}
	g.mu.RLock()
	tc := g.cfg.TaintConfig()
	g.mu.RUnlock()
	s := &session{tracker: taint.NewTracker(tc)}
	actual, _ := g.sessions.LoadOrStore(id, s)
	return actual.(*session)
}

func (g *Gate) record(a Action, out Outcome, hash string) {
	if g.auditLog == nil {
		return
	}
	err := g.auditLog.Record(audit.Entry{
		SessionID:  out.SessionID,
		Source:     a.Source,
		Domain:     out.Domain,
		Trust:      out.Trust,
		Command:    out.Command,
		Decision:   out.Decision(),
		Reason:     out.Reason,
		Level:      out.Level,
		Tier:       out.Tier.String(),
		ConfigHash: hash,
	})
	if err != nil {
		g.log.WithError(err).Warn("audit record failed")
	}
}
