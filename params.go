// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/pathpattern/blob/master/LICENSE.txt.

package pathpattern

type Param struct {
	Key   string
	Value string
}

// Params holds the variables captured while matching a path, in the order
// they are declared in the pattern.
type Params []Param

// Get the captured variable value by name.
func (p Params) Get(name string) string {
	for i := range p {
		if p[i].Key == name {
			return p[i].Value
		}
	}
	return ""
}

// Has checks whether the variable exists by name.
func (p Params) Has(name string) bool {
	for i := range p {
		if p[i].Key == name {
			return true
		}
	}

	return false
}

// Clone make a copy of Params.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	cloned := make(Params, len(p))
	copy(cloned, p)
	return cloned
}
