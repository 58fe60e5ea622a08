package rod

import "strings"

// ChallengeDetector decides whether a selector refers to an anti-bot
// challenge control. Detection drives two things: the extra resolution
// strategies tried for clicks, and the longer settle delay afterward.
type ChallengeDetector interface {
	Matches(selector string) bool
}

// TermDetector matches case-insensitively on a fixed set of trigger terms.
type TermDetector struct {
	terms []string
}

func NewTermDetector(terms ...string) TermDetector {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		lowered = append(lowered, strings.ToLower(t))
	}
	return TermDetector{terms: lowered}
}

// DefaultDetector covers the wording of the common interstitial pages.
func DefaultDetector() TermDetector {
	return NewTermDetector("robot", "captcha", "verify", "continue", "unusual", "traffic")
}

func (d TermDetector) Matches(selector string) bool {
	s := strings.ToLower(selector)
	for _, term := range d.terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
