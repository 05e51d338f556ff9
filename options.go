// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/pathpattern/blob/master/LICENSE.txt.

package pathpattern

import "fmt"

type Option interface {
	apply(*Parser) error
}

type optionFunc func(*Parser) error

func (o optionFunc) apply(p *Parser) error {
	return o(p)
}

// WithSeparator sets the byte used as the path segment separator. The default
// separator is '/'. Bytes that carry pattern syntax cannot be used.
func WithSeparator(separator byte) Option {
	return optionFunc(func(p *Parser) error {
		switch separator {
		case '*', '?', '{', '}', '\\':
			return fmt.Errorf("%w: separator %q conflicts with pattern syntax", ErrInvalidConfig, string(separator))
		}
		p.separator = separator
		return nil
	})
}

// WithCaseSensitivity controls whether literal text and capture constraints
// compare case sensitively. Enabled by default.
func WithCaseSensitivity(enable bool) Option {
	return optionFunc(func(p *Parser) error {
		p.caseSensitive = enable
		return nil
	})
}

// WithOptionalTrailingSeparator controls whether a path carrying a single extra
// trailing separator still matches a pattern that does not end with one.
// Enabled by default.
func WithOptionalTrailingSeparator(enable bool) Option {
	return optionFunc(func(p *Parser) error {
		p.optionalTrailingSeparator = enable
		return nil
	})
}
