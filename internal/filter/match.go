// Package filter implements the date/name/kind filter stage shared by every
// report builder (spec.md §4.6) and the relative/absolute date grammar and
// duration-formatting policy (spec.md §6).
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"mlog/internal/event"
)

// NameMatcher implements the three package-search modes the original tool
// supports (SPEC_FULL §12.2): exact "category/name", exact bare "name"
// (matched as a "/name" suffix), and case-insensitive regex. Multiple
// search terms are OR'd together.
type NameMatcher struct {
	terms []term
}

type term struct {
	exact  string // categ/name or "" if this term is a regex
	suffix string // "/name" form
	re     *regexp.Regexp
}

// NewNameMatcher builds a matcher from search terms. exact selects
// categ/name or /name suffix matching instead of regex.
func NewNameMatcher(searches []string, exact bool) (*NameMatcher, error) {
	if len(searches) == 0 {
		return nil, nil
	}
	m := &NameMatcher{}
	for _, s := range searches {
		if exact && strings.Contains(s, "/") {
			m.terms = append(m.terms, term{exact: s})
			continue
		}
		if exact {
			m.terms = append(m.terms, term{suffix: "/" + s})
			continue
		}
		re, err := regexp.Compile("(?i)" + s)
		if err != nil {
			return nil, fmt.Errorf("bad regex %q: %w", s, err)
		}
		m.terms = append(m.terms, term{re: re})
	}
	return m, nil
}

// Match reports whether id ("category/name") satisfies any search term.
// A nil matcher matches everything.
func (m *NameMatcher) Match(id string) bool {
	if m == nil {
		return true
	}
	for _, t := range m.terms {
		switch {
		case t.exact != "":
			if id == t.exact {
				return true
			}
		case t.suffix != "":
			if strings.HasSuffix(id, t.suffix) {
				return true
			}
		case t.re != nil:
			if t.re.MatchString(id) {
				return true
			}
		}
	}
	return false
}

// MatchKey is a convenience wrapper for event.Key.
func (m *NameMatcher) MatchKey(k event.Key) bool { return m.Match(k.ID()) }
