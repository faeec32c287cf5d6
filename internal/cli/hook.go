package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ed-dc/ClawTaint/internal/gate"
)

// hookInput is the JSON payload agent runtimes send to pre-tool-use
// hooks. Claude Code sends:
//
//	{"hook_event_name": "PreToolUse", "session_id": "...",
//	 "tool_name": "Bash", "tool_input": {"command": "..."}}
//
// Generic callers may instead send {"source": "...", "payload": {...}}.
type hookInput struct {
	HookEventName string         `json:"hook_event_name"`
	SessionID     string         `json:"session_id"`
	ToolName      string         `json:"tool_name"`
	ToolInput     map[string]any `json:"tool_input"`

	Source  string         `json:"source"`
	Payload map[string]any `json:"payload"`
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Agent hook handler: gate one action from a stdin JSON payload",
	Long: "Reads a pre-tool-use hook payload from stdin, runs it through the trust\n" +
		"gate, and blocks via exit code 2 with the reason on stdout.\n\n" +
		"Faults in the surrounding pipeline fail open: a broken hook must not\n" +
		"stop the agent from acting at all. Policy decisions themselves remain\n" +
		"fail-closed.",
	RunE: runHook,
}

func runHook(cmd *cobra.Command, args []string) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	var input hookInput
	if err := json.Unmarshal(data, &input); err != nil {
		// Unparseable hook payload: fail open, but say so.
		fmt.Fprintf(os.Stderr, "clawtaint: could not parse hook input: %v\n", err)
		return nil
	}

	action, ok := actionFromHook(input)
	if !ok {
		return nil
	}

	g, err := gate.New(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clawtaint: %v\n", err)
		return nil // fail open
	}
	defer g.Close()

	out := g.HandleAction(action)
	if out.CommandEvaluated && !out.Allowed {
		fmt.Printf("BLOCKED by clawtaint (%s tier): %s\n", out.Tier, out.Reason)
		os.Exit(2)
	}
	return nil
}

// actionFromHook maps the hook payload shapes onto a gate action. The
// second return is false for hook events that carry nothing to gate.
func actionFromHook(input hookInput) (gate.Action, bool) {
	if input.HookEventName != "" {
		if input.ToolName == "" || len(input.ToolInput) == 0 {
			return gate.Action{}, false
		}
		return gate.Action{
			SessionID: input.SessionID,
			Source:    input.ToolName,
			Payload:   input.ToolInput,
		}, true
	}

	if input.Source != "" && len(input.Payload) > 0 {
		return gate.Action{
			SessionID: input.SessionID,
			Source:    input.Source,
			Payload:   input.Payload,
		}, true
	}

	return gate.Action{}, false
}
