// Package config loads and validates the ClawTaint configuration. The
// core packages receive a validated configuration object and never
// re-validate beyond runtime clamping.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ed-dc/ClawTaint/internal/taint"
)

// Config holds all configurable policy parameters.
type Config struct {
	InitialLevel   int              `yaml:"initial_level" json:"initial_level"`
	PenaltyAmount  int              `yaml:"penalty_amount" json:"penalty_amount"`
	RecoveryAmount int              `yaml:"recovery_amount" json:"recovery_amount"`
	Floor          int              `yaml:"floor" json:"floor"`
	Tiers          taint.TierRanges `yaml:"tiers" json:"tiers"`

	TrustedDomains []string `yaml:"trusted_domains" json:"trusted_domains"`

	AlwaysBlocked     []string `yaml:"always_blocked" json:"always_blocked"`
	DangerousCommands []string `yaml:"dangerous_commands" json:"dangerous_commands"`
	SafeCommands      []string `yaml:"safe_commands" json:"safe_commands"`
	GovernedSources   []string `yaml:"governed_sources" json:"governed_sources"`

	AuditLogPath string `yaml:"audit_log" json:"audit_log,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		InitialLevel:   100,
		PenaltyAmount:  10,
		RecoveryAmount: 5,
		Floor:          0,
		Tiers:          taint.DefaultTierRanges(),
		TrustedDomains: []string{
			"github.com",
			"**.github.com",
			"**.githubusercontent.com",
			"golang.org",
			"**.golang.org",
			"pkg.go.dev",
			"go.dev",
			"stackoverflow.com",
			"**.stackoverflow.com",
			"developer.mozilla.org",
			"**.wikipedia.org",
			"docs.python.org",
			"pypi.org",
			"registry.npmjs.org",
			"crates.io",
			"localhost",
			"127.0.0.1",
		},
		AlwaysBlocked: []string{
			"rm -rf /",
			"rm -rf ~",
			"rm -rf *",
			":(){",
			"mkfs",
			"dd if=/dev/zero",
			"dd of=/dev/sd",
			"> /dev/sda",
			"chmod -R 777 /",
		},
		DangerousCommands: []string{
			"rm -rf",
			"rm -f",
			"sudo",
			"chmod 777",
			"chown",
			"curl | sh",
			"curl | bash",
			"wget | sh",
			"git push --force",
			"git reset --hard",
			"npm publish",
			"kill -9",
			"shutdown",
			"reboot",
		},
		SafeCommands: []string{
			"ls", "cat", "pwd", "echo", "date", "whoami", "hostname",
			"head", "tail", "wc", "which", "env", "grep", "find",
			"git status", "git log", "git diff",
		},
		GovernedSources: []string{
			"shell", "terminal", "bash", "command", "exec",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".clawtaint", "config.yaml")
}

// LoadConfig loads configuration from a YAML file. Empty path falls back
// to ~/.clawtaint/config.yaml. Missing file returns defaults. Invalid YAML
// or an invalid resulting configuration returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg, _, err := LoadConfigWithHash(path)
	return cfg, err
}

// LoadConfigWithHash loads configuration and returns the SHA-256 hash of
// the raw YAML bytes on disk. When no file exists (defaults used) the hash
// is the SHA-256 of empty input.
func LoadConfigWithHash(path string) (*Config, string, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()

	var raw []byte
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			raw = data
			// Start with defaults, YAML overwrites only specified fields
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, "", fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// defaults
		default:
			return nil, "", fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}

	h := sha256.Sum256(raw)
	return cfg, "sha256:" + hex.EncodeToString(h[:]), nil
}

// Validate checks numeric ranges and the tier partition. All validation
// happens here, at construction time; the trackers built from a validated
// Config only clamp.
func (c *Config) Validate() error {
	if c.Floor < 0 || c.Floor > 100 {
		return fmt.Errorf("floor %d out of [0,100]", c.Floor)
	}
	if c.InitialLevel < c.Floor || c.InitialLevel > 100 {
		return fmt.Errorf("initial_level %d out of [floor=%d,100]", c.InitialLevel, c.Floor)
	}
	if c.PenaltyAmount < 0 {
		return fmt.Errorf("penalty_amount must not be negative")
	}
	if c.RecoveryAmount < 0 {
		return fmt.Errorf("recovery_amount must not be negative")
	}
	return validateTiers(c.Tiers)
}

// validateTiers requires the four ranges to partition [0,100] without gaps
// or overlaps, ordered lockdown < restricted < cautious < permissive so
// tier resolution is monotonic in the trust level.
func validateTiers(tr taint.TierRanges) error {
	type named struct {
		name string
		r    taint.Range
	}
	ranges := []named{
		{"lockdown", tr.Lockdown},
		{"restricted", tr.Restricted},
		{"cautious", tr.Cautious},
		{"permissive", tr.Permissive},
	}

	for _, n := range ranges {
		if n.r.Min > n.r.Max {
			return fmt.Errorf("tier %s: min %d greater than max %d", n.name, n.r.Min, n.r.Max)
		}
	}

	ordered := make([]named, len(ranges))
	copy(ordered, ranges)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].r.Min < ordered[j].r.Min })
	for i := range ranges {
		if ordered[i].name != ranges[i].name {
			return fmt.Errorf("tier ranges out of order: %s must be below %s", ranges[i].name, ordered[i].name)
		}
	}

	if ordered[0].r.Min != 0 {
		return fmt.Errorf("tier ranges must start at 0, got %d", ordered[0].r.Min)
	}
	if ordered[len(ordered)-1].r.Max != 100 {
		return fmt.Errorf("tier ranges must end at 100, got %d", ordered[len(ordered)-1].r.Max)
	}
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if cur.r.Min != prev.r.Max+1 {
			return fmt.Errorf("tier ranges must be contiguous: %s ends at %d, %s starts at %d",
				prev.name, prev.r.Max, cur.name, cur.r.Min)
		}
	}
	return nil
}

// TaintConfig converts the validated configuration into tracker parameters.
func (c *Config) TaintConfig() taint.Config {
	return taint.Config{
		InitialLevel:   c.InitialLevel,
		PenaltyAmount:  c.PenaltyAmount,
		RecoveryAmount: c.RecoveryAmount,
		Floor:          c.Floor,
		Ranges:         c.Tiers,
	}
}

// DefaultConfigYAML returns a commented YAML string for `clawtaint init`.
func DefaultConfigYAML() string {
	return `# clawtaint configuration
# Generated by: clawtaint init
#
# Pipeline per intercepted action (cannot be changed):
#   1. Extract a resource identifier from the action payload
#   2. Classify it against trusted_domains (no match -> untrusted)
#   3. Apply penalty_amount (untrusted) or recovery_amount (trusted)
#   4. For governed command sources, evaluate the command at the
#      post-update restriction tier

# Trust level starts at initial_level and is clamped to [floor,100].
initial_level: 100
penalty_amount: 10
recovery_amount: 5
floor: 0

# Restriction tiers. Closed [min,max] ranges that must partition [0,100].
tiers:
  permissive: {min: 75, max: 100}
  cautious: {min: 50, max: 74}
  restricted: {min: 25, max: 49}
  lockdown: {min: 0, max: 24}

# Domain patterns treated as trusted.
#   *  = one domain label   ** = any depth   ? = one character
# "**.github.com" covers github.com and every subdomain.
trusted_domains:
  - github.com
  - "**.github.com"
  - "**.golang.org"
  - pkg.go.dev

# Substrings blocked at every tier, even permissive.
always_blocked:
  - "rm -rf /"
  - ":(){"
  - mkfs

# Substrings blocked at cautious tier and below.
dangerous_commands:
  - "rm -rf"
  - sudo
  - "curl | sh"

# Commands allowed at restricted tier, matched by base executable token.
safe_commands:
  - ls
  - cat
  - pwd
  - git status

# Action-source names whose payloads carry governed shell commands.
governed_sources:
  - shell
  - terminal
  - bash

# Optional hash-chained JSONL audit log.
# audit_log: ~/.clawtaint/audit.jsonl
`
}
