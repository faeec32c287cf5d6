package trust

// Verdict is the outcome of classifying one resource identifier.
type Verdict struct {
	Trusted        bool   `json:"trusted"`
	MatchedPattern string `json:"matched_pattern,omitempty"`
}

// Classifier holds the compiled trust patterns. Patterns are consistent,
// not prioritized: any match against a trusted pattern yields the same
// verdict, so iteration order never changes the outcome.
type Classifier struct {
	matchers []*Matcher
}

// NewClassifier compiles the configured patterns. A single invalid pattern
// fails construction; this is a configuration defect, not a runtime case.
func NewClassifier(patterns []string) (*Classifier, error) {
	c := &Classifier{matchers: make([]*Matcher, 0, len(patterns))}
	for _, p := range patterns {
		m, err := CompileMatcher(p)
		if err != nil {
			return nil, err
		}
		c.matchers = append(c.matchers, m)
	}
	return c, nil
}

// Classify judges a bare domain against the pattern set. No match means
// untrusted. Repeated calls with the same input return the same verdict;
// classification has no hidden state.
func (c *Classifier) Classify(domain string) Verdict {
	for _, m := range c.matchers {
		if m.Matches(domain) {
			return Verdict{Trusted: true, MatchedPattern: m.Pattern()}
		}
	}
	return Verdict{}
}

// PatternCount returns the number of compiled patterns.
func (c *Classifier) PatternCount() int {
	return len(c.matchers)
}
