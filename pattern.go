// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/pathpattern/blob/master/LICENSE.txt.

package pathpattern

import (
	"fmt"
	"strings"
)

// Pattern is a compiled path pattern. It is immutable and safe for
// concurrent use by multiple goroutines.
type Pattern struct {
	head                      pathElement
	pattern                   string
	variableNames             []string
	capturedVariableCount     int
	score                     int
	normalizedLength          int
	separator                 byte
	caseSensitive             bool
	optionalTrailingSeparator bool
	catchAll                  bool
	endsWithSeparatorWildcard bool
}

// String returns the pattern as given to the parser.
func (p *Pattern) String() string {
	return p.pattern
}

// VariableNames returns the capture variable names declared by the pattern,
// in declaration order.
func (p *Pattern) VariableNames() []string {
	names := make([]string, len(p.variableNames))
	copy(names, p.variableNames)
	return names
}

// Matches reports whether the whole path matches the pattern.
func (p *Pattern) Matches(path string) bool {
	if p.head == nil {
		return len(path) == 0
	}
	if len(path) == 0 {
		switch p.head.(type) {
		case *wildcardTheRestElement, *captureTheRestElement:
		default:
			return false
		}
	}
	mc := p.newContext(path)
	return p.head.matches(0, mc)
}

// MatchStart reports whether the beginning of the path matches the pattern,
// leaving any extra trailing data unconstrained.
func (p *Pattern) MatchStart(path string) bool {
	if len(path) == 0 {
		return true
	}
	if p.head == nil {
		return false
	}
	mc := p.newContext(path)
	mc.matchStart = true
	return p.head.matches(0, mc)
}

// MatchAndExtract matches the whole path and returns the captured variables
// in declaration order. A failed match returns an error unwrapping to
// [ErrNoMatch], or to [ErrCaptureGroups] when a regex constraint smuggles
// capturing groups of its own.
func (p *Pattern) MatchAndExtract(path string) (Params, error) {
	if p.head != nil {
		mc := p.newContext(path)
		mc.extracting = true
		if p.head.matches(0, mc) {
			return mc.vars, nil
		}
		if mc.err != nil {
			return nil, mc.err
		}
	}
	if len(path) == 0 {
		return Params{}, nil
	}
	return nil, fmt.Errorf("%w: pattern %q does not match path %q", ErrNoMatch, p.pattern, path)
}

// PathRemainingMatch is the result of [Pattern.PathRemaining]: the part of
// the path left over once the pattern has been consumed, plus any variables
// bound on the way.
type PathRemainingMatch struct {
	Remaining string
	Variables Params
}

// PathRemaining matches the start of the path and returns what is left over,
// or nil if even the start does not match. An empty Remaining means the
// pattern consumed the path entirely. Since variables are bound on the way, a
// constraint with its own capturing group also yields nil; use
// [Pattern.MatchAndExtract] to surface that as [ErrCaptureGroups].
func (p *Pattern) PathRemaining(path string) *PathRemainingMatch {
	if p.head == nil {
		return &PathRemainingMatch{Remaining: path}
	}
	mc := p.newContext(path)
	mc.extracting = true
	mc.determineRemaining = true
	if !p.head.matches(0, mc) {
		return nil
	}
	return &PathRemainingMatch{
		Remaining: path[mc.remainingPathIndex:],
		Variables: mc.vars,
	}
}

// ExtractPathWithinPattern returns the part of the path matched by the
// wildcard portion of the pattern, assuming the path does match. Literal
// leading segments are dropped, duplicate separators are collapsed and,
// unless the pattern captures the rest, trailing separators are trimmed.
func (p *Pattern) ExtractPathWithinPattern(path string) string {
	elem := p.head
	separatorCount := 0
	matchTheRest := false
	for elem != nil {
		switch elem.(type) {
		case *separatorElement:
			separatorCount++
		case *wildcardTheRestElement, *captureTheRestElement:
			separatorCount++
			matchTheRest = true
		}
		if elem.wildcardCount() != 0 || elem.captureCount() != 0 {
			break
		}
		elem = elem.nextElement()
	}
	if elem == nil {
		// no wildcard or capture, the pattern matched all of the path
		return ""
	}

	pos := 0
	for separatorCount > 0 && pos < len(path) {
		if path[pos] == p.separator {
			separatorCount--
		}
		pos++
	}
	end := len(path)
	if !matchTheRest {
		for end > 0 && path[end-1] == p.separator {
			end--
		}
	}
	if end < pos {
		end = pos
	}

	var b *strings.Builder
	c := pos
	for c < end {
		ch := path[c]
		if ch == p.separator && c+1 < end && path[c+1] == p.separator {
			if b == nil {
				b = &strings.Builder{}
				b.WriteString(path[pos:c])
			}
			c++
			for c+1 < end && path[c+1] == p.separator {
				c++
			}
		}
		if b != nil {
			b.WriteByte(ch)
		}
		c++
	}
	if b != nil {
		return b.String()
	}
	if pos == len(path) {
		return ""
	}
	return path[pos:end]
}

// Compare orders patterns by specificity, most specific first. Catch-all
// patterns always sort after everything else, then a lower wildcard and
// capture score wins, then the longer pattern wins. A nil other sorts last.
func (p *Pattern) Compare(other *Pattern) int {
	if other == nil {
		return -1
	}
	if p.catchAll && other.catchAll {
		if d := p.normalizedLength - other.normalizedLength; d != 0 {
			if d < 0 {
				return 1
			}
			return -1
		}
	} else if p.catchAll {
		return 1
	} else if other.catchAll {
		return -1
	}
	if d := p.score - other.score; d != 0 {
		if d < 0 {
			return -1
		}
		return 1
	}
	switch d := p.normalizedLength - other.normalizedLength; {
	case d < 0:
		return 1
	case d > 0:
		return -1
	default:
		return 0
	}
}

// ComparatorConsideringPath returns a comparison function suitable for
// sorting candidate patterns against a concrete path: a pattern whose text
// equals the path sorts first, nil patterns sort last, everything else
// falls back to [Pattern.Compare].
func ComparatorConsideringPath(path string) func(p1, p2 *Pattern) int {
	return func(p1, p2 *Pattern) int {
		if p1 == nil {
			if p2 == nil {
				return 0
			}
			return 1
		}
		if p2 == nil {
			return -1
		}
		if p1.pattern == path {
			if p2.pattern == path {
				return 0
			}
			return -1
		}
		if p2.pattern == path {
			return 1
		}
		return p1.Compare(p2)
	}
}

// Combine joins this pattern with a second one into a single pattern,
// following path concatenation rules: duplicate separators are avoided, a
// trailing '/*' glues onto the second pattern's first segment and file
// extension patterns like '/*.html' merge with the second pattern's name.
func (p *Pattern) Combine(pattern2 string) (string, error) {
	if p.pattern == "" {
		return pattern2, nil
	}
	if pattern2 == "" {
		return p.pattern, nil
	}
	if p.pattern != pattern2 && p.capturedVariableCount == 0 && p.Matches(pattern2) {
		return pattern2, nil
	}
	if p.endsWithSeparatorWildcard {
		return p.concat(p.pattern[:len(p.pattern)-2], pattern2), nil
	}
	starDot := strings.Index(p.pattern, "*.")
	if p.capturedVariableCount != 0 || starDot == -1 || p.separator == '.' {
		return p.concat(p.pattern, pattern2), nil
	}

	ext1 := p.pattern[starDot+1:]
	file2, ext2 := pattern2, ""
	if dot := strings.IndexByte(pattern2, '.'); dot != -1 {
		file2, ext2 = pattern2[:dot], pattern2[dot:]
	}
	ext1Wild := ext1 == ".*" || ext1 == ""
	ext2Wild := ext2 == ".*" || ext2 == ""
	if !ext1Wild && !ext2Wild {
		return "", fmt.Errorf("%w: %s and %s have conflicting file extensions", ErrCombine, p.pattern, pattern2)
	}
	if ext1Wild {
		return file2 + ext2, nil
	}
	return file2 + ext1, nil
}

func (p *Pattern) concat(path1, path2 string) string {
	sep1 := len(path1) > 0 && path1[len(path1)-1] == p.separator
	sep2 := len(path2) > 0 && path2[0] == p.separator
	if sep1 && sep2 {
		return path1 + path2[1:]
	}
	if sep1 || sep2 {
		return path1 + path2
	}
	return path1 + string(p.separator) + path2
}

func (p *Pattern) newContext(path string) *matchingContext {
	return &matchingContext{
		candidate:                 path,
		separator:                 p.separator,
		optionalTrailingSeparator: p.optionalTrailingSeparator,
	}
}

// chainString renders the compiled element chain, for debugging.
func (p *Pattern) chainString() string {
	var sb strings.Builder
	for e := p.head; e != nil; e = e.nextElement() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.chainText())
	}
	return sb.String()
}
