package rod

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/apexneural-anniesiri/Project-CUA/internal/application/port/output"
)

var (
	ErrNoStrategyMatched = errors.New("no resolution strategy matched")

	errNotPathStyle = errors.New("selector is not a path-style locator")
)

// A strategy is one way of locating an element from a loosely specified
// selector. Each receives a page handle already bounded by the element
// timeout, so a miss costs at most one timeout.
type strategy struct {
	name string
	find func(page *rod.Page, selector string) (*rod.Element, error)
}

// clickStrategies is the ordered fallback chain for click targets. The
// challenge strategies only join the chain when the selector text reads
// like an anti-bot control.
func clickStrategies(challenge bool) []strategy {
	s := []strategy{
		{"css", byCSS},
		{"exact text", byExactText},
		{"text contains", byFuzzyText},
	}
	if challenge {
		s = append(s,
			strategy{"challenge checkbox", byChallengeCheckbox},
			strategy{"continue button", byContinueButton},
			strategy{"verify button", byVerifyButton},
		)
	}
	return s
}

// typeStrategies is the ordered fallback chain for input fields, ending
// at the first generic text input anywhere on the page.
func typeStrategies() []strategy {
	return []strategy{
		{"path locator", byPathLocator},
		{"css", byCSS},
		{"placeholder", byPlaceholder},
		{"label", byLabel},
		{"searchbox role", bySearchboxRole},
		{"search input q", byEngineSearchInput},
		{"search textarea q", byEngineSearchTextarea},
		{"any text input", byAnyTextInput},
	}
}

func resolveElement(page *rod.Page, timeout time.Duration, selector string, strategies []strategy, log output.LoggerPort) (*rod.Element, error) {
	for _, s := range strategies {
		el, err := s.find(page.Timeout(timeout), selector)
		if err == nil && el != nil {
			log.Debug("element resolved", "strategy", s.name, "selector", selector)
			return el, nil
		}
		log.Debug("resolution strategy missed", "strategy", s.name, "selector", selector, "error", err)
	}
	return nil, fmt.Errorf("%w: %q", ErrNoStrategyMatched, selector)
}

func byCSS(page *rod.Page, selector string) (*rod.Element, error) {
	return page.Element(selector)
}

func byExactText(page *rod.Page, selector string) (*rod.Element, error) {
	lit := xpathLiteral(strings.TrimSpace(selector))
	return page.ElementX(fmt.Sprintf("//*[not(self::script) and not(self::style) and normalize-space(text())=%s]", lit))
}

func byFuzzyText(page *rod.Page, selector string) (*rod.Element, error) {
	lit := xpathLiteral(strings.TrimSpace(selector))
	return page.ElementX(fmt.Sprintf("//*[not(self::script) and not(self::style) and contains(normalize-space(text()), %s)]", lit))
}

func byChallengeCheckbox(page *rod.Page, _ string) (*rod.Element, error) {
	return page.Element(`input[type="checkbox"], [role="checkbox"]`)
}

func byContinueButton(page *rod.Page, _ string) (*rod.Element, error) {
	return page.ElementR(`button, [role="button"], a`, "/continue/i")
}

func byVerifyButton(page *rod.Page, _ string) (*rod.Element, error) {
	return page.ElementR(`button, [role="button"], a`, "/verify/i")
}

func byPathLocator(page *rod.Page, selector string) (*rod.Element, error) {
	switch {
	case strings.HasPrefix(selector, "xpath="):
		return page.ElementX(strings.TrimPrefix(selector, "xpath="))
	case strings.HasPrefix(selector, "/"):
		return page.ElementX(selector)
	}
	return nil, errNotPathStyle
}

func byPlaceholder(page *rod.Page, selector string) (*rod.Element, error) {
	lit := xpathLiteral(selector)
	return page.ElementX(fmt.Sprintf("//input[contains(@placeholder, %s)] | //textarea[contains(@placeholder, %s)]", lit, lit))
}

func byLabel(page *rod.Page, selector string) (*rod.Element, error) {
	label, err := page.ElementX(fmt.Sprintf("//label[contains(normalize-space(.), %s)]", xpathLiteral(selector)))
	if err != nil {
		return nil, err
	}
	if forID, _ := label.Attribute("for"); forID != nil && *forID != "" {
		return page.ElementX(fmt.Sprintf("//*[@id=%s]", xpathLiteral(*forID)))
	}
	return label.Element("input, textarea, select")
}

func bySearchboxRole(page *rod.Page, _ string) (*rod.Element, error) {
	return page.Element(`input[type="search"], [role="searchbox"]`)
}

func byEngineSearchInput(page *rod.Page, _ string) (*rod.Element, error) {
	return page.Element(`input[name="q"]`)
}

func byEngineSearchTextarea(page *rod.Page, _ string) (*rod.Element, error) {
	return page.Element(`textarea[name="q"]`)
}

func byAnyTextInput(page *rod.Page, _ string) (*rod.Element, error) {
	return page.Element(`input[type="text"], input[type="search"], textarea`)
}

// xpathLiteral quotes s for use inside an XPath expression. XPath 1.0 has
// no escape syntax, so a string holding both quote kinds goes through
// concat.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	var b strings.Builder
	b.WriteString("concat(")
	for i, part := range strings.Split(s, "'") {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + part + "'")
	}
	b.WriteString(")")
	return b.String()
}
