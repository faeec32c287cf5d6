package taint

import (
	"fmt"
	"strings"
)

// Tier represents the restriction level derived from the current trust
// level. Higher tier = more restricted.
type Tier int

const (
	TierPermissive Tier = 0 // full command access
	TierCautious   Tier = 1 // dangerous commands blocked
	TierRestricted Tier = 2 // safe-command allow-list only
	TierLockdown   Tier = 3 // all commands blocked
)

func (t Tier) String() string {
	switch t {
	case TierPermissive:
		return "permissive"
	case TierCautious:
		return "cautious"
	case TierRestricted:
		return "restricted"
	case TierLockdown:
		return "lockdown"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseTier maps a tier name to its value. Comparison is case-insensitive.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(s) {
	case "permissive":
		return TierPermissive, nil
	case "cautious":
		return TierCautious, nil
	case "restricted":
		return TierRestricted, nil
	case "lockdown":
		return TierLockdown, nil
	default:
		return TierLockdown, fmt.Errorf("unknown tier %q", s)
	}
}

// Range is a closed [Min,Max] trust-level interval.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains reports whether level falls inside the range, inclusive.
func (r Range) Contains(level int) bool {
	return level >= r.Min && level <= r.Max
}

// TierRanges maps each tier to its trust-level range. Valid configurations
// partition [0,100] with no gaps or overlaps; Validate in the config package
// enforces that at load time.
type TierRanges struct {
	Permissive Range `yaml:"permissive" json:"permissive"`
	Cautious   Range `yaml:"cautious" json:"cautious"`
	Restricted Range `yaml:"restricted" json:"restricted"`
	Lockdown   Range `yaml:"lockdown" json:"lockdown"`
}

// DefaultTierRanges returns the built-in tier partition.
func DefaultTierRanges() TierRanges {
	return TierRanges{
		Permissive: Range{Min: 75, Max: 100},
		Cautious:   Range{Min: 50, Max: 74},
		Restricted: Range{Min: 25, Max: 49},
		Lockdown:   Range{Min: 0, Max: 24},
	}
}

// rangeFor returns the configured range for a tier.
func (tr TierRanges) rangeFor(t Tier) Range {
	switch t {
	case TierPermissive:
		return tr.Permissive
	case TierCautious:
		return tr.Cautious
	case TierRestricted:
		return tr.Restricted
	default:
		return tr.Lockdown
	}
}

// ResolveTier maps a trust level to its tier by range lookup.
//
// The fallback branch only activates if the ranges do not cover the level,
// which a validated configuration rules out (levels are clamped into
// [floor,100] before resolution). It is kept as a defensive invariant:
// at or below 0 resolves to the most restrictive tier, at or above 100 to
// the most permissive, and anything else uncovered fails closed.
func ResolveTier(level int, ranges TierRanges) Tier {
	for _, t := range []Tier{TierPermissive, TierCautious, TierRestricted, TierLockdown} {
		if ranges.rangeFor(t).Contains(level) {
			return t
		}
	}

	if level <= 0 {
		return TierLockdown
	}
	if level >= 100 {
		return TierPermissive
	}
	return TierLockdown
}
