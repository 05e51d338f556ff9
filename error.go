// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/pathpattern/blob/master/LICENSE.txt.

package pathpattern

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrPatternParse  = errors.New("invalid path pattern")
	ErrNoMatch       = errors.New("no match")
	ErrCombine       = errors.New("cannot combine patterns")
	ErrCaptureGroups = errors.New("illegal capture group")
)

// ParseErrorCode identifies the reason a pattern was rejected by the parser.
type ParseErrorCode uint8

const (
	MissingCloseCapture ParseErrorCode = iota + 1
	MissingOpenCapture
	IllegalNestedCapture
	EmptyCaptureName
	IllegalCaptureNameStart
	IllegalCaptureNameChar
	MissingRegexConstraint
	RegexConstraintSyntax
	IllegalDoubleCapture
	CaptureTheRestNotStandalone
	DataAfterCaptureTheRest
	CatchAllNotAtEnd
)

func (c ParseErrorCode) String() string {
	switch c {
	case MissingCloseCapture:
		return "expected close capture character '}'"
	case MissingOpenCapture:
		return "missing open capture character '{'"
	case IllegalNestedCapture:
		return "illegal nested capture"
	case EmptyCaptureName:
		return "missing variable name"
	case IllegalCaptureNameStart:
		return "character is not valid at start of captured variable name"
	case IllegalCaptureNameChar:
		return "character is not valid in a captured variable name"
	case MissingRegexConstraint:
		return "missing regex constraint on capture"
	case RegexConstraintSyntax:
		return "regex constraint does not compile"
	case IllegalDoubleCapture:
		return "cannot capture the same variable twice"
	case CaptureTheRestNotStandalone:
		return "capture the rest must be the whole segment"
	case DataAfterCaptureTheRest:
		return "no more pattern data allowed after capture the rest"
	case CatchAllNotAtEnd:
		return "'**' is only allowed at the end of a pattern"
	default:
		return "unknown parse error"
	}
}

// PatternParseError describes why and where a pattern failed to parse.
// It unwraps to [ErrPatternParse].
type PatternParseError struct {
	Cause   error
	Pattern string
	Code    ParseErrorCode
	Pos     int
}

func (e *PatternParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s at position %d in pattern %q: %s", e.Code, e.Pos, e.Pattern, e.Cause)
	}
	return fmt.Sprintf("%s at position %d in pattern %q", e.Code, e.Pos, e.Pattern)
}

func (e *PatternParseError) Unwrap() error {
	return ErrPatternParse
}
