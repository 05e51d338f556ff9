package stringutil

// EqualASCIIIgnoreCase performs case-insensitive comparison of two ASCII bytes.
// Only ASCII letters (A-Z, a-z) fold, every other byte must match exactly.
// Used for case-insensitive literal matching where patterns are ASCII.
func EqualASCIIIgnoreCase(s, t uint8) bool {
	// Easy case.
	if t == s {
		return true
	}

	// Make s < t to simplify what follows.
	if t < s {
		t, s = s, t
	}

	// ASCII only, s/t must be upper/lower case
	if 'A' <= s && s <= 'Z' && t == s+'a'-'A' {
		return true
	}

	return false
}
