package consumeraudit

import (
	"errors"
	"regexp"
	"sync"
)

// TagMatcher decides whether an actual consumer tag satisfies an expected
// listener pattern.
type TagMatcher interface {
	Match(pattern, tag string) (bool, error)
}

var errEmptyPattern = errors.New("empty pattern")

// RegexTagMatcher searches the pattern anywhere in the tag. Compiled patterns
// are cached, including the compile error of invalid ones.
type RegexTagMatcher struct {
	mu    sync.Mutex
	cache map[string]compiled
}

type compiled struct {
	re  *regexp.Regexp
	err error
}

var _ TagMatcher = (*RegexTagMatcher)(nil)

func NewRegexTagMatcher() *RegexTagMatcher {
	return &RegexTagMatcher{cache: make(map[string]compiled)}
}

func (m *RegexTagMatcher) Match(pattern, tag string) (bool, error) {
	if pattern == "" {
		return false, errEmptyPattern
	}

	m.mu.Lock()
	c, ok := m.cache[pattern]
	if !ok {
		re, err := regexp.Compile(pattern)
		c = compiled{re: re, err: err}
		m.cache[pattern] = c
	}
	m.mu.Unlock()

	if c.err != nil {
		return false, c.err
	}
	return c.re.MatchString(tag), nil
}
