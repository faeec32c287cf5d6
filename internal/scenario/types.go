package scenario

// Case is one step in a scenario. Cases run in order against a shared
// session, so taint accumulated by earlier cases carries forward.
type Case struct {
	Source     string `yaml:"source"`
	URL        string `yaml:"url,omitempty"`
	Command    string `yaml:"command,omitempty"`
	Expect     string `yaml:"expect"`                // allow | block | observe
	ExpectTier string `yaml:"expect_tier,omitempty"` // optional tier assertion
}

// Scenario is a named, ordered sequence of gate assertions.
type Scenario struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one case.
type CaseResult struct {
	Index    int    `json:"index"`
	Passed   bool   `json:"passed"`
	Source   string `json:"source"`
	Resource string `json:"resource"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Level    int    `json:"level"`
	Tier     string `json:"tier"`
	Reason   string `json:"reason,omitempty"`
}

// RunResult is the outcome of running one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
