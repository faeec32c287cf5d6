// Package scenario replays YAML-defined action sequences through the gate
// pipeline and asserts the expected decisions. Used by `clawtaint check`
// to gate config changes in CI.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ed-dc/ClawTaint/internal/gate"
)

// Load parses a scenario YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario has no name")
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("scenario %q has no cases", s.Name)
	}
	return &s, nil
}

// Run replays all cases of a scenario in order against one fresh session
// of the given gate, so taint accumulates across cases the way it would
// in a live agent session.
func Run(s *Scenario, g *gate.Gate) *RunResult {
	result := &RunResult{Name: s.Name, Total: len(s.Cases)}
	sessionID := fmt.Sprintf("scenario-%s", sanitize(s.Name))

	for i, c := range s.Cases {
		payload := map[string]any{}
		if c.URL != "" {
			payload["url"] = c.URL
		}
		if c.Command != "" {
			payload["command"] = c.Command
		}

		out := g.HandleAction(gate.Action{
			SessionID: sessionID,
			Source:    c.Source,
			Payload:   payload,
		})

		cr := CaseResult{
			Index:    i + 1,
			Source:   c.Source,
			Resource: firstNonEmpty(c.URL, c.Command),
			Expected: strings.ToLower(c.Expect),
			Actual:   out.Decision(),
			Level:    out.Level,
			Tier:     out.Tier.String(),
			Reason:   out.Reason,
		}

		cr.Passed = cr.Actual == cr.Expected
		if cr.Passed && c.ExpectTier != "" {
			cr.Passed = strings.EqualFold(c.ExpectTier, cr.Tier)
			if !cr.Passed {
				cr.Actual = fmt.Sprintf("%s (tier %s)", cr.Actual, cr.Tier)
				cr.Expected = fmt.Sprintf("%s (tier %s)", cr.Expected, strings.ToLower(c.ExpectTier))
			}
		}

		if cr.Passed {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Cases = append(result.Cases, cr)
	}

	return result
}

// LoadAndRun loads a scenario file and runs it against a fresh gate built
// from the given config path.
func LoadAndRun(path, cfgPath string) (*RunResult, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}

	g, err := gate.New(cfgPath)
	if err != nil {
		return nil, err
	}
	defer g.Close()

	r := Run(s, g)
	r.File = path
	return r, nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' {
			return '-'
		}
		return r
	}, strings.ToLower(name))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
