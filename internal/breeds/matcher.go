// Package breeds narrows the catalog's breed list by a user query.
package breeds

import (
	"regexp"
	"strings"
	"sync"
)

// Matcher decides whether a breed name matches a query.
type Matcher interface {
	Match(breed, query string) bool
	Name() string
}

// Options holds matcher configuration.
type Options struct {
	CaseInsensitive bool
}

// Option modifies Options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive matching.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

func applyOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SubstringMatcher matches breeds containing the query.
type SubstringMatcher struct {
	opts Options
}

// NewSubstringMatcher creates a substring matcher.
func NewSubstringMatcher(opts ...Option) Matcher {
	return &SubstringMatcher{opts: applyOptions(opts)}
}

func (m *SubstringMatcher) Match(breed, query string) bool {
	if query == "" {
		return true
	}
	if m.opts.CaseInsensitive {
		breed, query = strings.ToLower(breed), strings.ToLower(query)
	}
	return strings.Contains(breed, query)
}

func (m *SubstringMatcher) Name() string { return "substring" }

// RegexMatcher matches breeds against a regular expression. An invalid
// pattern matches nothing.
type RegexMatcher struct {
	opts    Options
	cache   map[string]*regexp.Regexp
	cacheMu sync.RWMutex
}

// NewRegexMatcher creates a regex matcher.
func NewRegexMatcher(opts ...Option) Matcher {
	return &RegexMatcher{opts: applyOptions(opts), cache: make(map[string]*regexp.Regexp)}
}

func (m *RegexMatcher) Match(breed, query string) bool {
	if query == "" {
		return true
	}
	re, err := m.compile(query)
	if err != nil {
		return false
	}
	return re.MatchString(breed)
}

// Compile reports whether pattern is a valid expression.
func (m *RegexMatcher) Compile(pattern string) error {
	_, err := m.compile(pattern)
	return err
}

func (m *RegexMatcher) compile(pattern string) (*regexp.Regexp, error) {
	m.cacheMu.RLock()
	re, ok := m.cache[pattern]
	m.cacheMu.RUnlock()
	if ok {
		return re, nil
	}

	expr := pattern
	if m.opts.CaseInsensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	m.cacheMu.Lock()
	m.cache[pattern] = re
	m.cacheMu.Unlock()
	return re, nil
}

func (m *RegexMatcher) Name() string { return "regex" }

// Filter keeps the breeds matching query, in their original order.
func Filter(breeds []string, query string, m Matcher) []string {
	out := make([]string, 0, len(breeds))
	for _, b := range breeds {
		if m.Match(b, query) {
			out = append(out, b)
		}
	}
	return out
}
