// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/pathpattern/blob/master/LICENSE.txt.

package pathpattern

import (
	"regexp"
	"strings"
)

// scanner walks a pattern string once, left to right, cutting it into path
// elements at separator boundaries. It carries the state of the segment
// currently being consumed.
type scanner struct {
	pattern       string
	variableNames []string
	elems         []pathElement
	separator     byte
	caseSensitive bool
	pos           int

	// state of the pending segment, reset after each flush
	elementStart      int
	captureStart      int
	captureCount      int
	singleCharCount   int
	wildcard          bool
	insideCapture     bool
	captureTheRest    bool
}

func (s *scanner) errorAt(code ParseErrorCode, pos int) error {
	return &PatternParseError{Code: code, Pos: pos, Pattern: s.pattern}
}

func (s *scanner) scan() ([]pathElement, []string, error) {
	for s.pos < len(s.pattern) {
		ch := s.pattern[s.pos]
		if ch == s.separator {
			if s.elementStart != -1 {
				if err := s.flushSegment(false); err != nil {
					return nil, nil, err
				}
			}
			if s.peekDoubleWildcard() {
				s.push(&wildcardTheRestElement{separator: s.separator})
				s.pos += 3
			} else {
				s.push(&separatorElement{separator: s.separator})
				s.pos++
			}
			continue
		}
		if s.elementStart == -1 {
			s.elementStart = s.pos
		}
		switch ch {
		case '?':
			s.singleCharCount++
		case '{':
			if s.insideCapture {
				return nil, nil, s.errorAt(IllegalNestedCapture, s.pos)
			}
			s.insideCapture = true
			s.captureStart = s.pos
		case '}':
			if !s.insideCapture {
				return nil, nil, s.errorAt(MissingOpenCapture, s.pos)
			}
			nameStart := s.captureStart + 1
			if s.captureTheRest {
				nameStart++
			}
			if s.pos == nameStart {
				return nil, nil, s.errorAt(EmptyCaptureName, s.pos)
			}
			s.insideCapture = false
			s.captureCount++
			if s.captureTheRest && s.pos+1 < len(s.pattern) {
				return nil, nil, s.errorAt(DataAfterCaptureTheRest, s.pos+1)
			}
		case ':':
			if s.insideCapture && !s.captureTheRest {
				if err := s.skipCaptureRegex(); err != nil {
					return nil, nil, err
				}
				s.insideCapture = false
				s.captureCount++
			}
		case '*':
			if s.insideCapture && s.pos == s.captureStart+1 {
				s.captureTheRest = true
			}
			s.wildcard = true
		}
		if s.insideCapture && ch != '{' {
			nameStart := s.captureStart + 1
			if s.captureTheRest {
				nameStart++
			}
			if s.pos == nameStart {
				if !isNameStart(ch) {
					return nil, nil, s.errorAt(IllegalCaptureNameStart, s.pos)
				}
			} else if s.pos > nameStart && !isNamePart(ch) {
				return nil, nil, s.errorAt(IllegalCaptureNameChar, s.pos)
			}
		}
		s.pos++
	}
	if s.elementStart != -1 {
		if err := s.flushSegment(true); err != nil {
			return nil, nil, err
		}
	}
	return s.elems, s.variableNames, nil
}

// peekDoubleWildcard reports whether the separator at pos is followed by a
// final '**'.
func (s *scanner) peekDoubleWildcard() bool {
	return s.pos+3 == len(s.pattern) && s.pattern[s.pos+1] == '*' && s.pattern[s.pos+2] == '*'
}

// skipCaptureRegex consumes the regex constraint following a ':' in a
// capture, honoring backslash escapes and nested unescaped braces. It leaves
// pos on the closing '}'.
func (s *scanner) skipCaptureRegex() error {
	if s.pos == s.captureStart+1 {
		return s.errorAt(EmptyCaptureName, s.pos)
	}
	s.pos++
	start := s.pos
	depth := 0
	escaped := false
	for s.pos < len(s.pattern) {
		ch := s.pattern[s.pos]
		if ch == '\\' && !escaped {
			escaped = true
			s.pos++
			continue
		}
		if !escaped {
			switch ch {
			case '{':
				depth++
			case '}':
				if depth == 0 {
					if s.pos == start {
						return s.errorAt(MissingRegexConstraint, start)
					}
					return nil
				}
				depth--
			}
		}
		escaped = false
		s.pos++
	}
	return s.errorAt(MissingCloseCapture, s.pos-1)
}

// push appends an element to the chain under construction. A capture the
// rest element subsumes the separator that precedes it, since the variable
// binds the remainder of the path separator included.
func (s *scanner) push(e pathElement) {
	if _, ok := e.(*captureTheRestElement); ok {
		if n := len(s.elems); n > 0 {
			if _, isSep := s.elems[n-1].(*separatorElement); isSep {
				s.elems[n-1] = e
				return
			}
		}
	}
	s.elems = append(s.elems, e)
}

func (s *scanner) recordVariable(pos int, name string) error {
	for _, n := range s.variableNames {
		if n == name {
			return s.errorAt(IllegalDoubleCapture, pos)
		}
	}
	s.variableNames = append(s.variableNames, name)
	return nil
}

// flushSegment turns the pending segment into a path element. atEnd is true
// when the segment reaches the end of the pattern rather than a separator.
func (s *scanner) flushSegment(atEnd bool) error {
	if s.insideCapture {
		return s.errorAt(MissingCloseCapture, s.pos)
	}
	text := s.pattern[s.elementStart:s.pos]
	e, err := s.createElement(text, atEnd)
	if err != nil {
		return err
	}
	s.push(e)
	s.elementStart = -1
	s.captureCount = 0
	s.singleCharCount = 0
	s.wildcard = false
	s.captureTheRest = false
	return nil
}

func (s *scanner) createElement(text string, atEnd bool) (pathElement, error) {
	if s.captureCount > 0 {
		wholeSegment := s.captureCount == 1 && s.elementStart == s.captureStart && text[len(text)-1] == '}'
		if s.captureTheRest {
			if !wholeSegment {
				return nil, s.errorAt(CaptureTheRestNotStandalone, s.elementStart)
			}
			name := text[2 : len(text)-1]
			if err := s.recordVariable(s.elementStart, name); err != nil {
				return nil, err
			}
			return &captureTheRestElement{name: name, separator: s.separator}, nil
		}
		if wholeSegment {
			name := text[1 : len(text)-1]
			var constraint *regexp.Regexp
			if colon := strings.IndexByte(name, ':'); colon != -1 {
				expr := name[colon+1:]
				name = name[:colon]
				re, err := compileAnchored(expr, s.caseSensitive)
				if err != nil {
					return nil, &PatternParseError{
						Code:    RegexConstraintSyntax,
						Pos:     s.captureStart + len(name) + 2,
						Pattern: s.pattern,
						Cause:   err,
					}
				}
				constraint = re
			}
			if err := s.recordVariable(s.elementStart, name); err != nil {
				return nil, err
			}
			return &captureElement{name: name, constraint: constraint}, nil
		}
		return s.createRegexElement(text)
	}
	if s.wildcard {
		if text == "*" {
			return &wildcardElement{}, nil
		}
		if text == "**" && !atEnd {
			return nil, s.errorAt(CatchAllNotAtEnd, s.elementStart)
		}
		return s.createRegexElement(text)
	}
	if s.singleCharCount > 0 {
		return &singleCharWildcardElement{text: text, questionCount: s.singleCharCount, caseSensitive: s.caseSensitive}, nil
	}
	return &literalElement{text: text, caseSensitive: s.caseSensitive}, nil
}

// createRegexElement compiles a mixed segment, literal text interleaved with
// wildcards and captures, into a single anchored regexp.
func (s *scanner) createRegexElement(text string) (pathElement, error) {
	var sb strings.Builder
	var names []string
	wildcards := 0
	normLen := 0
	litStart := -1
	flush := func(end int) {
		if litStart != -1 {
			sb.WriteString(regexp.QuoteMeta(text[litStart:end]))
			litStart = -1
		}
	}
	i := 0
	for i < len(text) {
		switch text[i] {
		case '?':
			flush(i)
			sb.WriteByte('.')
			normLen++
			i++
		case '*':
			flush(i)
			sb.WriteString(".*")
			if i == 0 || text[i-1] != '.' {
				wildcards++
			}
			normLen++
			i++
		case '{':
			flush(i)
			end := scanCaptureToken(text, i)
			if end == -1 {
				return nil, s.errorAt(MissingCloseCapture, s.elementStart+len(text)-1)
			}
			token := text[i+1 : end]
			if colon := strings.IndexByte(token, ':'); colon != -1 {
				sb.WriteByte('(')
				sb.WriteString(token[colon+1:])
				sb.WriteByte(')')
				token = token[:colon]
			} else {
				sb.WriteString("(.*)")
			}
			if err := s.recordVariable(s.elementStart+i, token); err != nil {
				return nil, err
			}
			names = append(names, token)
			normLen++
			i = end + 1
		default:
			if litStart == -1 {
				litStart = i
			}
			normLen++
			i++
		}
	}
	flush(len(text))

	re, err := compileAnchored(sb.String(), s.caseSensitive)
	if err != nil {
		return nil, &PatternParseError{
			Code:    RegexConstraintSyntax,
			Pos:     s.elementStart,
			Pattern: s.pattern,
			Cause:   err,
		}
	}
	return &regexElement{re: re, text: text, names: names, wildcards: wildcards, normLen: normLen}, nil
}

// scanCaptureToken returns the index of the '}' closing the capture opened
// at start, or -1 if it is unterminated.
func scanCaptureToken(text string, start int) int {
	depth := 0
	escaped := false
	for i := start + 1; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func compileAnchored(expr string, caseSensitive bool) (*regexp.Regexp, error) {
	full := "^(?:" + expr + ")$"
	if !caseSensitive {
		full = "(?i)" + full
	}
	return regexp.Compile(full)
}

func isNameStart(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || ('0' <= c && c <= '9')
}
