// Package rules decides whether a shell command is permitted at a given
// restriction tier. Evaluation is a pure function of the command and the
// tier; matching is deliberately crude substring containment. Over-blocking
// is acceptable; obfuscation slipping past the dangerous list is a known
// limitation, not something to fix with shell-aware parsing.
package rules

import (
	"fmt"
	"strings"

	"github.com/ed-dc/ClawTaint/internal/taint"
)

// Result is the outcome of evaluating one command.
type Result struct {
	Allowed     bool   `json:"allowed"`
	Reason      string `json:"reason,omitempty"`
	MatchedRule string `json:"matched_rule,omitempty"`
}

// Config holds the three command rule lists plus the set of action-source
// names whose payloads carry commands the evaluator governs.
type Config struct {
	AlwaysBlocked     []string
	DangerousCommands []string
	SafeCommands      []string
	GovernedSources   []string
}

// Evaluator is the tiered command-restriction evaluator. Stateless after
// construction; safe for concurrent use.
type Evaluator struct {
	alwaysBlocked []string
	dangerous     []string
	safeBase      map[string]string // lowered base token → configured entry
	governed      map[string]bool
}

// NewEvaluator precomputes lowered patterns and safe-command base tokens.
func NewEvaluator(cfg Config) *Evaluator {
	e := &Evaluator{
		alwaysBlocked: lowerAll(cfg.AlwaysBlocked),
		dangerous:     lowerAll(cfg.DangerousCommands),
		safeBase:      make(map[string]string, len(cfg.SafeCommands)),
		governed:      make(map[string]bool, len(cfg.GovernedSources)),
	}
	for _, s := range cfg.SafeCommands {
		if base := baseToken(s); base != "" {
			e.safeBase[base] = s
		}
	}
	for _, src := range cfg.GovernedSources {
		e.governed[strings.ToLower(src)] = true
	}
	return e
}

// Evaluate applies the rule chain in order; the first decisive rule wins.
//
//  1. Absolute denylist — blocks at every tier, including Permissive.
//  2. Tier dispatch — permissive allows, cautious blocks dangerous
//     substrings, restricted allows only safe base executables, lockdown
//     blocks everything.
//  3. Unknown tier — fail closed with a diagnostic, never fail open.
func (e *Evaluator) Evaluate(command string, tier taint.Tier) Result {
	lower := strings.ToLower(command)

	for _, p := range e.alwaysBlocked {
		if strings.Contains(lower, p) {
			return Result{
				Reason:      fmt.Sprintf("command contains always-blocked pattern %q", p),
				MatchedRule: p,
			}
		}
	}

	switch tier {
	case taint.TierPermissive:
		return Result{Allowed: true}

	case taint.TierCautious:
		for _, p := range e.dangerous {
			if strings.Contains(lower, p) {
				return Result{
					Reason:      fmt.Sprintf("command contains dangerous pattern %q at cautious tier", p),
					MatchedRule: p,
				}
			}
		}
		return Result{Allowed: true}

	case taint.TierRestricted:
		base := baseToken(command)
		if entry, ok := e.safeBase[base]; ok {
			return Result{Allowed: true, MatchedRule: entry}
		}
		return Result{
			Reason: fmt.Sprintf("command %q is not on the restricted-tier allow list", base),
		}

	case taint.TierLockdown:
		return Result{
			Reason: "lockdown: all commands are blocked until trust recovers",
		}

	default:
		return Result{
			Reason: fmt.Sprintf("unrecognized restriction tier %d, failing closed", int(tier)),
		}
	}
}

// IsGovernedSource reports whether an action source carries commands this
// evaluator governs. Comparison is case-insensitive exact match.
func (e *Evaluator) IsGovernedSource(name string) bool {
	return e.governed[strings.ToLower(name)]
}

// baseToken returns the lowered first whitespace-delimited word of the
// portion of the command before the first chaining character.
func baseToken(command string) string {
	if idx := strings.IndexAny(command, ";&|"); idx >= 0 {
		command = command[:idx]
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
