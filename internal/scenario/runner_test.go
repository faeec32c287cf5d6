package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ed-dc/ClawTaint/internal/config"
	"github.com/ed-dc/ClawTaint/internal/gate"
)

const erosionScenario = `
name: erosion gates shell
cases:
  - source: web_fetch
    url: https://evil.example.com/a
    expect: observe
  - source: web_fetch
    url: https://evil.example.com/b
    expect: observe
  - source: web_fetch
    url: https://evil.example.com/c
    expect: observe
    expect_tier: cautious
  - source: shell
    command: rm -rf ./build
    expect: block
  - source: shell
    command: make build
    expect: allow
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testGate(t *testing.T) *gate.Gate {
	t.Helper()
	g, err := gate.NewFromConfig(config.DefaultConfig(), "sha256:test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestLoadRejectsBadScenarios(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no name", "cases:\n  - source: shell\n    command: ls\n    expect: allow\n"},
		{"no cases", "name: empty\n"},
		{"bad yaml", "name: [broken\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeScenario(t, tt.body)); err == nil {
				t.Error("expected load error")
			}
		})
	}
}

func TestRunErosionAcrossCases(t *testing.T) {
	s, err := Load(writeScenario(t, erosionScenario))
	if err != nil {
		t.Fatal(err)
	}

	r := Run(s, testGate(t))
	if r.Failed != 0 {
		for _, c := range r.Cases {
			if !c.Passed {
				t.Errorf("case %d: expected %s, got %s (%s)", c.Index, c.Expected, c.Actual, c.Reason)
			}
		}
		t.Fatalf("scenario failed %d of %d cases", r.Failed, r.Total)
	}
	if r.Passed != 5 {
		t.Fatalf("passed = %d, want 5", r.Passed)
	}

	// Taint accumulated: the fourth case ran at level 70.
	if r.Cases[3].Level != 70 || r.Cases[3].Tier != "cautious" {
		t.Fatalf("case 4 ran at level %d tier %s, want 70/cautious", r.Cases[3].Level, r.Cases[3].Tier)
	}
}

func TestRunReportsMismatch(t *testing.T) {
	body := `
name: wrong expectation
cases:
  - source: shell
    command: ls
    expect: block
`
	s, err := Load(writeScenario(t, body))
	if err != nil {
		t.Fatal(err)
	}

	r := Run(s, testGate(t))
	if r.Failed != 1 {
		t.Fatalf("failed = %d, want 1", r.Failed)
	}
	c := r.Cases[0]
	if c.Passed || c.Expected != "block" || c.Actual != "allow" {
		t.Fatalf("case result = %+v", c)
	}
}

func TestRunTierAssertionFailure(t *testing.T) {
	body := `
name: tier mismatch
cases:
  - source: web_fetch
    url: https://evil.example.com/a
    expect: observe
    expect_tier: lockdown
`
	s, err := Load(writeScenario(t, body))
	if err != nil {
		t.Fatal(err)
	}

	r := Run(s, testGate(t))
	if r.Failed != 1 {
		t.Fatalf("tier assertion should fail, got %+v", r.Cases[0])
	}
}

func TestFormatTextSummarizes(t *testing.T) {
	s, err := Load(writeScenario(t, erosionScenario))
	if err != nil {
		t.Fatal(err)
	}
	r := Run(s, testGate(t))

	out := FormatText([]*RunResult{r})
	if !strings.Contains(out, "PASS  erosion gates shell (5/5)") {
		t.Fatalf("text output missing pass line:\n%s", out)
	}
	if !strings.Contains(out, "5 of 5 cases passed.") {
		t.Fatalf("text output missing summary:\n%s", out)
	}
}

func TestLoadAndRunWithDefaults(t *testing.T) {
	path := writeScenario(t, erosionScenario)
	// Point at a missing config file so built-in defaults are used.
	r, err := LoadAndRun(path, filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if r.File != path {
		t.Fatalf("file = %q, want %q", r.File, path)
	}
	if r.Failed != 0 {
		t.Fatalf("failed = %d, want 0", r.Failed)
	}
}
