// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/pathpattern/blob/master/LICENSE.txt.

package pathpattern

import (
	"slices"
	"strings"
	"sync"
)

// PathMatcher is a convenience facade over [Parser] and [Pattern] for
// callers juggling many pattern strings. Compiled patterns are cached, so
// repeated calls with the same pattern string reuse the same [Pattern].
// PathMatcher is safe for concurrent use.
type PathMatcher struct {
	parser *Parser
	cache  sync.Map // pattern string -> *Pattern
}

// NewPathMatcher returns a matcher whose patterns are compiled with the
// given parser options.
func NewPathMatcher(opts ...Option) (*PathMatcher, error) {
	parser, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return &PathMatcher{parser: parser}, nil
}

// Pattern returns the compiled form of the pattern, parsing and caching it
// on first use. Concurrent first uses may compile the pattern more than
// once, all callers still observe a single cached value.
func (m *PathMatcher) Pattern(pattern string) (*Pattern, error) {
	if v, ok := m.cache.Load(pattern); ok {
		return v.(*Pattern), nil
	}
	p, err := m.parser.Parse(pattern)
	if err != nil {
		return nil, err
	}
	v, _ := m.cache.LoadOrStore(pattern, p)
	return v.(*Pattern), nil
}

// IsPattern reports whether the path carries pattern syntax, as opposed to
// being a plain literal path.
// TODO: parse the candidate and inspect the chain instead of scanning for
// metacharacters, so that an escaped or constrained form is classified right.
func (m *PathMatcher) IsPattern(path string) bool {
	return strings.ContainsAny(path, "*?{")
}

// Match reports whether the whole path matches the pattern.
func (m *PathMatcher) Match(pattern, path string) (bool, error) {
	p, err := m.Pattern(pattern)
	if err != nil {
		return false, err
	}
	return p.Matches(path), nil
}

// MatchStart reports whether the beginning of the path matches the pattern.
func (m *PathMatcher) MatchStart(pattern, path string) (bool, error) {
	p, err := m.Pattern(pattern)
	if err != nil {
		return false, err
	}
	return p.MatchStart(path), nil
}

// ExtractVariables matches the whole path and returns the captured
// variables.
func (m *PathMatcher) ExtractVariables(pattern, path string) (Params, error) {
	p, err := m.Pattern(pattern)
	if err != nil {
		return nil, err
	}
	return p.MatchAndExtract(path)
}

// ExtractPathWithinPattern returns the part of the path matched by the
// wildcard portion of the pattern.
func (m *PathMatcher) ExtractPathWithinPattern(pattern, path string) (string, error) {
	p, err := m.Pattern(pattern)
	if err != nil {
		return "", err
	}
	return p.ExtractPathWithinPattern(path), nil
}

// Combine joins two pattern strings into one.
func (m *PathMatcher) Combine(pattern1, pattern2 string) (string, error) {
	p, err := m.Pattern(pattern1)
	if err != nil {
		return "", err
	}
	return p.Combine(pattern2)
}

// Sort orders the patterns by specificity for the given path, most specific
// first, using [ComparatorConsideringPath]. The sort is stable.
func (m *PathMatcher) Sort(path string, patterns []*Pattern) {
	slices.SortStableFunc(patterns, ComparatorConsideringPath(path))
}
