package trust

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ExtractionStatus is the explicit three-way result of resource extraction.
// Absence must never be conflated with "found but untrusted".
type ExtractionStatus int

const (
	// Absent means the payload carried no resource identifier at all.
	Absent ExtractionStatus = iota
	// Found means a resource identifier was present and parsed to a host.
	Found
	// Invalid means an identifier was present but could not be parsed.
	// Callers treat this conservatively as untrusted.
	Invalid
)

func (s ExtractionStatus) String() string {
	switch s {
	case Found:
		return "found"
	case Invalid:
		return "invalid"
	default:
		return "absent"
	}
}

// Extraction is the outcome of scanning one action payload.
type Extraction struct {
	Status ExtractionStatus
	Domain string // lowercased host, set when Status == Found
	Raw    string // the candidate string the payload carried
}

// urlFields are direct URL-bearing payload fields, in priority order.
// They win over any URL embedded in free text.
var urlFields = []string{"url", "uri", "resource", "href", "link"}

// textFields are free-text payload fields scanned for an embedded URL
// when no direct field is present.
var textFields = []string{"command", "prompt", "query", "input"}

var embeddedURL = regexp.MustCompile(`https?://[^\s"'<>` + "`" + `]+`)

// ExtractResource pulls a candidate resource identifier out of an
// arbitrary string-keyed action payload.
func ExtractResource(payload map[string]any) Extraction {
	for _, field := range urlFields {
		raw, ok := payload[field].(string)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		return fromCandidate(raw)
	}

	for _, field := range textFields {
		text, ok := payload[field].(string)
		if !ok {
			continue
		}
		if raw := embeddedURL.FindString(text); raw != "" {
			return fromCandidate(raw)
		}
	}

	return Extraction{Status: Absent}
}

func fromCandidate(raw string) Extraction {
	domain, err := DomainFromURL(raw)
	if err != nil {
		return Extraction{Status: Invalid, Raw: raw}
	}
	return Extraction{Status: Found, Domain: domain, Raw: raw}
}

// DomainFromURL extracts the lowercased host from a URL or bare host
// string. Port numbers are stripped; a missing scheme gets a default one
// prepended before parsing.
func DomainFromURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty resource identifier")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("unparseable resource identifier %q: %w", raw, err)
	}

	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("resource identifier %q has no host", raw)
	}
	return strings.ToLower(host), nil
}
