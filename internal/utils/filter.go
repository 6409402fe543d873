package utils

// Byte-level predicates shared by the loader and the pattern compiler.
// Words and patterns are plain lowercase ASCII, so nothing here decodes runes.

// IsLower reports whether b is one of 'a'..'z'.
func IsLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// IsDigit reports whether b is one of '0'..'9'.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsLowerWord checks that s is non-empty and made only of 'a'..'z'.
// Returns the offset of the first offending byte, or -1 when s is valid.
func IsLowerWord(s string) (bool, int) {
	if len(s) == 0 {
		return false, 0
	}
	for i := 0; i < len(s); i++ {
		if !IsLower(s[i]) {
			return false, i
		}
	}
	return true, -1
}

// ContainsDigit checks if s has at least one ASCII digit
func ContainsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if IsDigit(s[i]) {
			return true
		}
	}
	return false
}

// ContainsLower checks if s has at least one lowercase letter
func ContainsLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if IsLower(s[i]) {
			return true
		}
	}
	return false
}
