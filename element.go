// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/pathpattern/blob/master/LICENSE.txt.

package pathpattern

import (
	"fmt"
	"regexp"

	"github.com/tigerwill90/pathpattern/internal/stringutil"
)

// Relative weights used when scoring a pattern for specificity comparison.
// A single wildcard weighs far more than a capture so that patterns with
// fewer wildcards always sort as more specific.
const (
	captureWeight  = 1
	wildcardWeight = 100
)

// matchingContext carries the per-call state of a single match attempt over
// an element chain.
type matchingContext struct {
	err                       error
	candidate                 string
	vars                      Params
	remainingPathIndex        int
	separator                 byte
	optionalTrailingSeparator bool
	matchStart                bool
	extracting                bool
	determineRemaining        bool
}

// scanAhead returns the index of the next separator at or after pos, or the
// candidate length if there is none.
func (mc *matchingContext) scanAhead(pos int) int {
	for i := pos; i < len(mc.candidate); i++ {
		if mc.candidate[i] == mc.separator {
			return i
		}
	}
	return len(mc.candidate)
}

// separatorOrEnd reports whether pos sits on a separator or past the end of
// the candidate.
func (mc *matchingContext) separatorOrEnd(pos int) bool {
	return pos >= len(mc.candidate) || mc.candidate[pos] == mc.separator
}

func (mc *matchingContext) set(name, value string) {
	mc.vars = append(mc.vars, Param{Key: name, Value: value})
}

// pathElement is a single node in a compiled pattern chain. Elements match
// left to right, each one consuming a slice of the candidate and delegating
// the rest to its successor.
type pathElement interface {
	// matches reports whether the candidate, starting at pathIndex, is
	// consumed by this element and the rest of the chain.
	matches(pathIndex int, mc *matchingContext) bool
	setNext(pathElement)
	nextElement() pathElement
	captureCount() int
	wildcardCount() int
	scoreValue() int
	normalizedLength() int
	// chainText renders the element for debug output.
	chainText() string
}

// chainBase provides chain linkage and zero-valued metadata defaults.
type chainBase struct {
	next pathElement
}

func (b *chainBase) setNext(e pathElement)    { b.next = e }
func (b *chainBase) nextElement() pathElement { return b.next }
func (b *chainBase) captureCount() int        { return 0 }
func (b *chainBase) wildcardCount() int       { return 0 }
func (b *chainBase) scoreValue() int          { return 0 }

type separatorElement struct {
	chainBase
	separator byte
}

func (s *separatorElement) matches(i int, mc *matchingContext) bool {
	if i >= len(mc.candidate) || mc.candidate[i] != mc.separator {
		return false
	}
	if s.next == nil {
		if mc.determineRemaining {
			mc.remainingPathIndex = i + 1
			return true
		}
		return i+1 == len(mc.candidate)
	}
	i++
	if mc.matchStart && i == len(mc.candidate) {
		return true
	}
	return s.next.matches(i, mc)
}

func (s *separatorElement) normalizedLength() int { return 1 }

func (s *separatorElement) chainText() string {
	return fmt.Sprintf("Separator(%c)", s.separator)
}

// literalElement matches exact text, folding ASCII letter case when the
// pattern is case insensitive. Non-ASCII bytes always compare exactly.
type literalElement struct {
	chainBase
	text          string
	caseSensitive bool
}

func (l *literalElement) matches(i int, mc *matchingContext) bool {
	end := i + len(l.text)
	if end > len(mc.candidate) {
		return false
	}
	if l.caseSensitive {
		if mc.candidate[i:end] != l.text {
			return false
		}
	} else {
		for j := 0; j < len(l.text); j++ {
			if !stringutil.EqualASCIIIgnoreCase(mc.candidate[i+j], l.text[j]) {
				return false
			}
		}
	}
	if l.next == nil {
		if mc.determineRemaining && mc.separatorOrEnd(end) {
			mc.remainingPathIndex = end
			return true
		}
		if end == len(mc.candidate) {
			return true
		}
		return mc.optionalTrailingSeparator && end+1 == len(mc.candidate) && mc.candidate[end] == mc.separator
	}
	if mc.matchStart && end == len(mc.candidate) {
		return true
	}
	return l.next.matches(end, mc)
}

func (l *literalElement) normalizedLength() int { return len(l.text) }

func (l *literalElement) chainText() string {
	return fmt.Sprintf("Literal(%s)", l.text)
}

// singleCharWildcardElement matches text where '?' stands for any single
// non-separator byte.
type singleCharWildcardElement struct {
	chainBase
	text          string
	questionCount int
	caseSensitive bool
}

func (w *singleCharWildcardElement) matches(i int, mc *matchingContext) bool {
	end := i + len(w.text)
	if end > len(mc.candidate) {
		return false
	}
	for j := 0; j < len(w.text); j++ {
		c := mc.candidate[i+j]
		if w.text[j] == '?' {
			if c == mc.separator {
				return false
			}
			continue
		}
		if w.caseSensitive {
			if w.text[j] != c {
				return false
			}
		} else if !stringutil.EqualASCIIIgnoreCase(c, w.text[j]) {
			return false
		}
	}
	if w.next == nil {
		if mc.determineRemaining && mc.separatorOrEnd(end) {
			mc.remainingPathIndex = end
			return true
		}
		if end == len(mc.candidate) {
			return true
		}
		return mc.optionalTrailingSeparator && end+1 == len(mc.candidate) && mc.candidate[end] == mc.separator
	}
	if mc.matchStart && end == len(mc.candidate) {
		return true
	}
	return w.next.matches(end, mc)
}

func (w *singleCharWildcardElement) wildcardCount() int    { return w.questionCount }
func (w *singleCharWildcardElement) normalizedLength() int { return len(w.text) }

func (w *singleCharWildcardElement) chainText() string {
	return fmt.Sprintf("SingleCharWildcard(%s)", w.text)
}

// wildcardElement matches zero or more bytes within a single segment. In a
// non-terminal position it must consume at least one byte.
type wildcardElement struct {
	chainBase
}

func (w *wildcardElement) matches(i int, mc *matchingContext) bool {
	next := mc.scanAhead(i)
	if w.next == nil {
		if mc.determineRemaining {
			mc.remainingPathIndex = next
			return true
		}
		if next == len(mc.candidate) {
			return true
		}
		return mc.optionalTrailingSeparator && next > i &&
			next+1 == len(mc.candidate) && mc.candidate[next] == mc.separator
	}
	if mc.matchStart && next == len(mc.candidate) {
		return true
	}
	if next == i {
		return false
	}
	return w.next.matches(next, mc)
}

func (w *wildcardElement) wildcardCount() int    { return 1 }
func (w *wildcardElement) scoreValue() int       { return wildcardWeight }
func (w *wildcardElement) normalizedLength() int { return 1 }

func (w *wildcardElement) chainText() string { return "Wildcard(*)" }

// captureElement binds a whole segment to a variable, optionally checked
// against an anchored regex constraint. The constraint must not introduce
// capturing groups of its own.
type captureElement struct {
	chainBase
	name       string
	constraint *regexp.Regexp
}

func (c *captureElement) matches(i int, mc *matchingContext) bool {
	next := mc.scanAhead(i)
	if next == i {
		return false
	}
	value := mc.candidate[i:next]
	if c.constraint != nil {
		if !c.constraint.MatchString(value) {
			return false
		}
		if mc.extracting && c.constraint.NumSubexp() != 0 {
			mc.err = fmt.Errorf("%w: constraint for variable %q uses capturing groups", ErrCaptureGroups, c.name)
			return false
		}
	}
	if mc.extracting {
		mc.set(c.name, value)
	}
	if c.next == nil {
		if mc.determineRemaining {
			mc.remainingPathIndex = next
			return true
		}
		if next == len(mc.candidate) {
			return true
		}
		return mc.optionalTrailingSeparator && next+1 == len(mc.candidate) && mc.candidate[next] == mc.separator
	}
	if mc.matchStart && next == len(mc.candidate) {
		return true
	}
	return c.next.matches(next, mc)
}

func (c *captureElement) captureCount() int     { return 1 }
func (c *captureElement) scoreValue() int       { return captureWeight }
func (c *captureElement) normalizedLength() int { return 1 }

func (c *captureElement) chainText() string {
	return fmt.Sprintf("CaptureVariable({%s})", c.name)
}

// regexElement matches a segment mixing literal text, wildcards and captures,
// compiled down to a single anchored regexp.
type regexElement struct {
	chainBase
	re        *regexp.Regexp
	text      string
	names     []string
	wildcards int
	normLen   int
}

func (r *regexElement) matches(i int, mc *matchingContext) bool {
	next := mc.scanAhead(i)
	segment := mc.candidate[i:next]
	if mc.extracting {
		groups := r.re.FindStringSubmatch(segment)
		if groups == nil {
			return false
		}
		if len(r.names) != r.re.NumSubexp() {
			mc.err = fmt.Errorf("%w: segment %q declares %d variables but its regex has %d capturing groups",
				ErrCaptureGroups, r.text, len(r.names), r.re.NumSubexp())
			return false
		}
		for gi, name := range r.names {
			mc.set(name, groups[gi+1])
		}
	} else if !r.re.MatchString(segment) {
		return false
	}
	if r.next == nil {
		if mc.determineRemaining && (len(r.names) == 0 || next > i) {
			mc.remainingPathIndex = next
			return true
		}
		if next == len(mc.candidate) {
			return len(r.names) == 0 || next > i
		}
		return mc.optionalTrailingSeparator && (len(r.names) == 0 || next > i) &&
			next+1 == len(mc.candidate) && mc.candidate[next] == mc.separator
	}
	if mc.matchStart && next == len(mc.candidate) {
		return true
	}
	return r.next.matches(next, mc)
}

func (r *regexElement) captureCount() int  { return len(r.names) }
func (r *regexElement) wildcardCount() int { return r.wildcards }

func (r *regexElement) scoreValue() int {
	return len(r.names)*captureWeight + r.wildcards*wildcardWeight
}

func (r *regexElement) normalizedLength() int { return r.normLen }

func (r *regexElement) chainText() string {
	return fmt.Sprintf("Regex(%s)", r.text)
}

// wildcardTheRestElement is the trailing '/**'. It accepts the remaining
// path, provided the remainder starts on a segment boundary.
type wildcardTheRestElement struct {
	chainBase
	separator byte
}

func (w *wildcardTheRestElement) matches(i int, mc *matchingContext) bool {
	if i < len(mc.candidate) && mc.candidate[i] != mc.separator {
		return false
	}
	if mc.determineRemaining {
		mc.remainingPathIndex = len(mc.candidate)
	}
	return true
}

func (w *wildcardTheRestElement) wildcardCount() int    { return 1 }
func (w *wildcardTheRestElement) normalizedLength() int { return 1 }

func (w *wildcardTheRestElement) chainText() string {
	return fmt.Sprintf("WildcardTheRest(%c**)", w.separator)
}

// captureTheRestElement is the trailing '/{*var}'. It binds the remaining
// path, leading separator included, to a variable.
type captureTheRestElement struct {
	chainBase
	name      string
	separator byte
}

func (c *captureTheRestElement) matches(i int, mc *matchingContext) bool {
	if i < len(mc.candidate) && mc.candidate[i] != mc.separator {
		return false
	}
	if mc.determineRemaining {
		mc.remainingPathIndex = len(mc.candidate)
	}
	if mc.extracting {
		mc.set(c.name, mc.candidate[i:])
	}
	return true
}

func (c *captureTheRestElement) captureCount() int     { return 1 }
func (c *captureTheRestElement) scoreValue() int       { return captureWeight }
func (c *captureTheRestElement) normalizedLength() int { return 1 }

func (c *captureTheRestElement) chainText() string {
	return fmt.Sprintf("CaptureTheRest(%c{*%s})", c.separator, c.name)
}
