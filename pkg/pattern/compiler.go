/*
Package pattern compiles query patterns into concrete match templates.

A pattern mixes literal letters with three kinds of tokens:

	*       one wildcard position
	{abc}   an alternation group, one template per listed character
	3       a wildcard run of three positions
	2:4     a ranged run, one template each for 2, 3 and 4 positions

Compilation runs in two passes. Alternation groups are expanded first into
their full cartesian product, left to right, alternatives in written order.
Each resulting string is then scanned for digit tokens, which are replaced by
wildcard runs.

# Digit runs

Digits are consumed one at a time. A digit followed by another digit adds
ten times its value in wildcards; any other digit adds its own value. Two
adjacent digits therefore read as an ordinary two-digit count:

	12   -> 10 wildcards, then 2 more

A digit followed by ':' opens a range whose upper bound is the one or two
digits after the colon. Every in-progress template branches into one variant
per run length in [lower, upper]. When upper < lower only the lower variant is
produced.

Three or more consecutive digits, or a bound longer than two digits, are
rejected rather than given a meaning.

# Results

No deduplication is done: two expansion paths that produce the same template
both appear in the output. A '{' without a closing '}' silently yields no
templates for that branch.
*/
package pattern

import (
	"strings"

	"github.com/bastiangx/wordmatch/internal/utils"
)

const (
	// DefaultMaxTemplates caps the expansion of a single pattern.
	DefaultMaxTemplates = 4096
	// DefaultMaxPatternLength caps the raw pattern size.
	DefaultMaxPatternLength = 256
)

// Option configures Compile.
type Option func(*compiler)

// WithMaxTemplates sets the template cap, values <= 0 keep the default.
func WithMaxTemplates(n int) Option {
	return func(c *compiler) {
		if n > 0 {
			c.maxTemplates = n
		}
	}
}

// WithMaxPatternLength sets the raw pattern length cap, values <= 0 keep the default.
func WithMaxPatternLength(n int) Option {
	return func(c *compiler) {
		if n > 0 {
			c.maxPatternLength = n
		}
	}
}

type compiler struct {
	pattern          string
	maxTemplates     int
	maxPatternLength int
}

// Compile expands pattern into every template it denotes.
// A nil slice with a nil error means the pattern is well formed but
// denotes nothing, e.g. an unclosed or empty group.
func Compile(pattern string, opts ...Option) ([]Template, error) {
	c := &compiler{
		pattern:          pattern,
		maxTemplates:     DefaultMaxTemplates,
		maxPatternLength: DefaultMaxPatternLength,
	}
	for _, opt := range opts {
		opt(c)
	}

	if len(pattern) > c.maxPatternLength {
		return nil, c.fail(c.maxPatternLength, ErrPatternTooLong, "")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	var expanded []string
	var err error
	if strings.IndexByte(pattern, '{') >= 0 {
		expanded, err = c.alternate("", 0, nil)
		if err != nil {
			return nil, err
		}
	} else {
		expanded = []string{pattern}
	}

	if !utils.ContainsDigit(pattern) {
		return toTemplates(expanded), nil
	}

	var templates []Template
	for _, s := range expanded {
		templates, err = c.expandRuns(s, templates)
		if err != nil {
			return nil, err
		}
	}
	return templates, nil
}

func (c *compiler) fail(pos int, err error, detail string) *Error {
	return &Error{Pattern: c.pattern, Pos: pos, Err: err, Detail: detail}
}

// validate checks the byte set and the token structure before any expansion.
func (c *compiler) validate() error {
	p := c.pattern
	for i := 0; i < len(p); i++ {
		if !allowed(p[i]) {
			return c.fail(i, ErrInvalidCharacter, "")
		}
	}

	digits := 0    // length of the current digit run
	bound := false // the current run follows ':'
	for i := 0; i < len(p); i++ {
		ch := p[i]
		switch {
		case ch == '{':
			end := strings.IndexByte(p[i+1:], '}')
			if end < 0 {
				// the branch is dropped during expansion, nothing after it matters
				return nil
			}
			closing := i + 1 + end
			for j := i + 1; j < closing; j++ {
				switch {
				case p[j] == '{':
					return c.fail(j, ErrInvalidPattern, "nested group")
				case !utils.IsLower(p[j]) && p[j] != Wildcard:
					return c.fail(j, ErrInvalidCharacter, "alternatives must be letters or '*'")
				}
			}
			i = closing
			digits, bound = 0, false
		case ch == '}':
			return c.fail(i, ErrInvalidPattern, "'}' without '{'")
		case ch == ':':
			if digits == 0 {
				return c.fail(i, ErrInvalidPattern, "range without lower bound")
			}
			if bound {
				return c.fail(i, ErrInvalidPattern, "range bound followed by ':'")
			}
			if i+1 >= len(p) || !utils.IsDigit(p[i+1]) {
				return c.fail(i, ErrInvalidPattern, "range without upper bound")
			}
			digits, bound = 0, true
		case utils.IsDigit(ch):
			digits++
			if digits > 2 {
				return c.fail(i, ErrInvalidPattern, "more than two consecutive digits")
			}
		default:
			digits, bound = 0, false
		}
	}
	return nil
}

func allowed(b byte) bool {
	return utils.IsLower(b) || utils.IsDigit(b) || b == Wildcard || b == '{' || b == '}' || b == ':'
}

// alternate expands alternation groups depth first. prefix is the text built
// so far, cursor the next unread byte of the pattern. Literal runs are copied
// in one step, so recursion depth is bounded by the number of groups.
func (c *compiler) alternate(prefix string, cursor int, out []string) ([]string, error) {
	rest := c.pattern[cursor:]
	open := strings.IndexByte(rest, '{')
	if open < 0 {
		if len(out) >= c.maxTemplates {
			return out, c.fail(cursor, ErrTooManyTemplates, "")
		}
		return append(out, prefix+rest), nil
	}

	prefix += rest[:open]
	open += cursor
	end := strings.IndexByte(c.pattern[open+1:], '}')
	if end < 0 {
		return out, nil
	}
	closing := open + 1 + end

	var err error
	for i := open + 1; i < closing; i++ {
		out, err = c.alternate(prefix+c.pattern[i:i+1], closing+1, out)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// expandRuns replaces digit tokens in s with wildcard runs and appends every
// resulting template to out.
func (c *compiler) expandRuns(s string, out []Template) ([]Template, error) {
	results := []string{""}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case !utils.IsDigit(ch):
			appendAll(results, string(ch))
		case i+1 < len(s) && s[i+1] == ':':
			lower := int(ch - '0')
			upper, width := readBound(s, i+2)
			variants := 1
			if upper > lower {
				variants += upper - lower
			}
			if len(out)+len(results)*variants > c.maxTemplates {
				return out, c.fail(i, ErrTooManyTemplates, "")
			}

			var longer []string
			for _, r := range results {
				for n := lower + 1; n <= upper; n++ {
					longer = append(longer, r+wildcards(n))
				}
			}
			appendAll(results, wildcards(lower))
			results = append(results, longer...)
			i += 1 + width
		case i+1 < len(s) && utils.IsDigit(s[i+1]):
			appendAll(results, wildcards(int(ch-'0')*10))
		default:
			appendAll(results, wildcards(int(ch-'0')))
		}
	}

	if len(out)+len(results) > c.maxTemplates {
		return out, c.fail(len(s), ErrTooManyTemplates, "")
	}
	for _, r := range results {
		out = append(out, Template(r))
	}
	return out, nil
}

// readBound decodes the one or two digit upper bound starting at s[at].
// validate guarantees s[at] is a digit.
func readBound(s string, at int) (value, width int) {
	value = int(s[at] - '0')
	if at+1 < len(s) && utils.IsDigit(s[at+1]) {
		return value*10 + int(s[at+1]-'0'), 2
	}
	return value, 1
}

func appendAll(results []string, suffix string) {
	for i := range results {
		results[i] += suffix
	}
}

func wildcards(n int) string {
	return strings.Repeat(string(Wildcard), n)
}

func toTemplates(ss []string) []Template {
	if len(ss) == 0 {
		return nil
	}
	out := make([]Template, len(ss))
	for i, s := range ss {
		out[i] = Template(s)
	}
	return out
}
