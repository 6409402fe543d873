package pattern

import "github.com/bastiangx/wordmatch/internal/utils"

// Wildcard is the template byte that matches any letter.
const Wildcard byte = '*'

// Template is one concrete candidate: a fixed-length string over 'a'..'z' and Wildcard.
type Template string

// Len is the word length the template matches.
func (t Template) Len() int {
	return len(t)
}

// HasLiteral reports whether at least one position is constrained.
// Templates without literals are pure length queries.
func (t Template) HasLiteral() bool {
	return utils.ContainsLower(string(t))
}

// IsExact reports whether every position is a literal letter.
func (t Template) IsExact() bool {
	if len(t) == 0 {
		return false
	}
	for i := 0; i < len(t); i++ {
		if t[i] == Wildcard {
			return false
		}
	}
	return true
}
