package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ed-dc/ClawTaint/internal/gate"
	"github.com/ed-dc/ClawTaint/internal/taint"
)

// --- Input/Output types ---

// GateInput defines parameters for the clawtaint_gate tool.
type GateInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier, omit to use the server's default session"`
	Source    string `json:"source" jsonschema:"action source name (e.g. shell, browser, fetch)"`
	URL       string `json:"url,omitempty" jsonschema:"resource URL the action touches"`
	Command   string `json:"command,omitempty" jsonschema:"shell command for governed sources"`
}

// GateOutput contains the gate decision and post-update trust state.
type GateOutput struct {
	SessionID   string `json:"session_id"`
	Decision    string `json:"decision"`
	Trust       string `json:"trust"`
	Domain      string `json:"domain,omitempty"`
	Level       int    `json:"level"`
	Tier        string `json:"tier"`
	Reason      string `json:"reason,omitempty"`
	MatchedRule string `json:"matched_rule,omitempty"`
}

// CheckInput defines parameters for the clawtaint_check tool.
type CheckInput struct {
	Command string `json:"command" jsonschema:"shell command to evaluate"`
	Tier    string `json:"tier" jsonschema:"restriction tier (permissive/cautious/restricted/lockdown)"`
}

// CheckOutput contains the dry-run evaluation result.
type CheckOutput struct {
	Allowed     bool   `json:"allowed"`
	Reason      string `json:"reason,omitempty"`
	MatchedRule string `json:"matched_rule,omitempty"`
}

// StatusInput selects the session to report on.
type StatusInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier, omit for the default session"`
}

// StatusOutput is a point-in-time trust snapshot.
type StatusOutput struct {
	SessionID string `json:"session_id"`
	Known     bool   `json:"known"`
	Level     int    `json:"level"`
	Tier      string `json:"tier"`
	Events    int    `json:"events"`
}

// ResetInput selects the session to reset.
type ResetInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session identifier, omit for the default session"`
}

// ResetOutput confirms the reset.
type ResetOutput struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// --- Handlers ---

func (s *Server) handleGate(ctx context.Context, req *mcpsdk.CallToolRequest, input GateInput) (*mcpsdk.CallToolResult, GateOutput, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = s.defaultSession
	}

	payload := map[string]any{}
	if input.URL != "" {
		payload["url"] = input.URL
	}
	if input.Command != "" {
		payload["command"] = input.Command
	}

	out := s.gate.HandleAction(gate.Action{
		SessionID: sessionID,
		Source:    input.Source,
		Payload:   payload,
	})

	result := GateOutput{
		SessionID:   out.SessionID,
		Decision:    out.Decision(),
		Trust:       out.Trust,
		Domain:      out.Domain,
		Level:       out.Level,
		Tier:        out.Tier.String(),
		Reason:      out.Reason,
		MatchedRule: out.MatchedRule,
	}

	if out.CommandEvaluated && !out.Allowed {
		return &mcpsdk.CallToolResult{IsError: true}, result, nil
	}
	return nil, result, nil
}

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	tier, err := taint.ParseTier(input.Tier)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	res := s.gate.CheckCommand(input.Command, tier)
	return nil, CheckOutput{
		Allowed:     res.Allowed,
		Reason:      res.Reason,
		MatchedRule: res.MatchedRule,
	}, nil
}

func (s *Server) handleStatus(ctx context.Context, req *mcpsdk.CallToolRequest, input StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = s.defaultSession
	}

	st, ok := s.gate.SessionStatus(sessionID)
	if !ok {
		return nil, StatusOutput{SessionID: sessionID}, nil
	}

	return nil, StatusOutput{
		SessionID: st.SessionID,
		Known:     true,
		Level:     st.Level,
		Tier:      st.Tier.String(),
		Events:    st.Events,
	}, nil
}

func (s *Server) handleReset(ctx context.Context, req *mcpsdk.CallToolRequest, input ResetInput) (*mcpsdk.CallToolResult, ResetOutput, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = s.defaultSession
	}

	s.gate.ResetSession(sessionID)
	return nil, ResetOutput{SessionID: sessionID, Status: "reset"}, nil
}
