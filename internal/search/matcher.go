package search

import (
	"bytes"
	"regexp"
)

// Matcher is the match predicate shared by every walker of a search.
// It is safe for concurrent use.
type Matcher struct {
	exact      []byte
	ignoreCase bool
	pattern    *regexp.Regexp
}

// NewMatcher pre-compiles the target for faster matching
func NewMatcher(target string, mode MatchMode, ignoreCase bool) (*Matcher, error) {
	switch mode {
	case MatchExact:
		return &Matcher{exact: []byte(target), ignoreCase: ignoreCase}, nil
	case MatchRegex:
		patternStr := target
		if ignoreCase {
			patternStr = "(?i)" + patternStr
		}
		pattern, err := regexp.Compile(patternStr)
		if err != nil {
			return nil, &ConfigError{Field: "pattern", Msg: "failed to compile regex " + target, Err: err}
		}
		return &Matcher{pattern: pattern, ignoreCase: ignoreCase}, nil
	default:
		return nil, &ConfigError{Field: "match mode", Msg: "unknown mode"}
	}
}

// Match reports whether b matches. In exact mode b must equal the target.
func (m *Matcher) Match(b []byte) bool {
	if m.pattern != nil {
		return m.pattern.Match(b)
	}
	if m.ignoreCase {
		return bytes.EqualFold(b, m.exact)
	}
	return bytes.Equal(b, m.exact)
}

// MatchString is Match for names already held as strings
func (m *Matcher) MatchString(s string) bool {
	if m.pattern != nil {
		return m.pattern.MatchString(s)
	}
	if m.ignoreCase {
		return bytes.EqualFold([]byte(s), m.exact)
	}
	return s == string(m.exact)
}
