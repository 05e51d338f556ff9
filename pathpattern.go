// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/pathpattern/blob/master/LICENSE.txt.

// Package pathpattern implements URL path pattern parsing and matching.
//
// A pattern is parsed once into a chain of path elements and may then be
// matched against any number of candidate paths. The syntax supports literal
// text, the '?' single character wildcard, the '*' segment wildcard, '{var}'
// captures with optional regex constraints like '{id:[0-9]+}', and the
// trailing '/**' and '/{*var}' forms that swallow the remainder of a path.
//
//	p := pathpattern.MustParse("/resource/{id}/**")
//	p.Matches("/resource/42/download/a.zip") // true
//
// Parsing and matching are deterministic. A compiled [Pattern] performs no
// cross segment backtracking, so matching cost stays linear in the path
// length, with any intra segment backtracking delegated to the regexp engine.
package pathpattern

// DefaultSeparator is the path separator used unless [WithSeparator] is set.
const DefaultSeparator byte = '/'

// Parser produces [Pattern] values from pattern strings. The zero value is
// not usable, use [NewParser]. A Parser is immutable after construction and
// safe for concurrent use.
type Parser struct {
	separator                 byte
	caseSensitive             bool
	optionalTrailingSeparator bool
}

// NewParser returns a ready to use parser configured with the given options.
func NewParser(opts ...Option) (*Parser, error) {
	p := &Parser{
		separator:                 DefaultSeparator,
		caseSensitive:             true,
		optionalTrailingSeparator: true,
	}
	for _, opt := range opts {
		if err := opt.apply(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Parse compiles the pattern into a [Pattern] ready for matching. The
// returned error unwraps to [ErrPatternParse] and carries the offending
// position as a [PatternParseError].
func (p *Parser) Parse(pattern string) (*Pattern, error) {
	s := &scanner{
		pattern:       pattern,
		separator:     p.separator,
		caseSensitive: p.caseSensitive,
		elementStart:  -1,
	}
	elems, names, err := s.scan()
	if err != nil {
		return nil, err
	}

	pat := &Pattern{
		pattern:                   pattern,
		separator:                 p.separator,
		caseSensitive:             p.caseSensitive,
		optionalTrailingSeparator: p.optionalTrailingSeparator,
		variableNames:             names,
	}
	for i, e := range elems {
		if i > 0 {
			elems[i-1].setNext(e)
		}
		pat.capturedVariableCount += e.captureCount()
		pat.score += e.scoreValue()
		pat.normalizedLength += e.normalizedLength()
	}
	if n := len(elems); n > 0 {
		pat.head = elems[0]
		switch elems[n-1].(type) {
		case *wildcardTheRestElement, *captureTheRestElement:
			pat.catchAll = true
		case *wildcardElement:
			if n >= 2 {
				if _, ok := elems[n-2].(*separatorElement); ok {
					pat.endsWithSeparatorWildcard = true
				}
			}
		}
	}
	return pat, nil
}

var defaultParser = &Parser{
	separator:                 DefaultSeparator,
	caseSensitive:             true,
	optionalTrailingSeparator: true,
}

// Parse compiles the pattern using the default parser configuration.
func Parse(pattern string) (*Pattern, error) {
	return defaultParser.Parse(pattern)
}

// MustParse is like [Parse] but panics on error. Intended for patterns known
// valid at compile time, typically package level variables.
func MustParse(pattern string) *Pattern {
	p, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return p
}
