// Package trust classifies network resources against configured
// glob-style domain patterns and extracts candidate resource identifiers
// from intercepted action payloads.
package trust

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher is a single compiled trust pattern. Compilation cost is paid
// once at configuration load; matching cost per check.
//
// Pattern tokens:
//
//	*   exactly one non-empty domain label (no dots)
//	**  one or more characters, spanning labels; "**." at a label
//	    boundary also matches the empty prefix, so "**.github.com"
//	    covers both "docs.github.com" and "github.com"
//	?   exactly one character
//
// Everything else is literal and case-insensitive. A pattern with no
// wildcards matches only by exact case-insensitive equality.
type Matcher struct {
	raw   string
	exact string
	re    *regexp.Regexp
}

// CompileMatcher compiles a pattern into an immutable Matcher.
func CompileMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty trust pattern")
	}

	if !strings.ContainsAny(pattern, "*?") {
		return &Matcher{raw: pattern, exact: strings.ToLower(pattern)}, nil
	}

	var b strings.Builder
	b.WriteString("(?i)^")
	for i := 0; i < len(pattern); i++ {
		switch {
		case strings.HasPrefix(pattern[i:], "**."):
			b.WriteString(`(?:.+\.)?`)
			i += 2
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(`.+`)
			i++
		case pattern[i] == '*':
			b.WriteString(`[^.]+`)
		case pattern[i] == '?':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid trust pattern %q: %w", pattern, err)
	}
	return &Matcher{raw: pattern, re: re}, nil
}

// Matches reports whether the candidate domain matches the full pattern,
// anchored start to end.
func (m *Matcher) Matches(candidate string) bool {
	if m.re == nil {
		return strings.EqualFold(candidate, m.exact)
	}
	return m.re.MatchString(candidate)
}

// Pattern returns the original pattern string.
func (m *Matcher) Pattern() string {
	return m.raw
}
