package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileStrings(t *testing.T, p string, opts ...Option) []string {
	t.Helper()
	templates, err := Compile(p, opts...)
	require.NoError(t, err, "pattern %q", p)
	out := make([]string, len(templates))
	for i, tpl := range templates {
		out[i] = string(tpl)
	}
	return out
}

func TestCompile(t *testing.T) {
	cases := []struct {
		pattern string
		want    []string
	}{
		{"cat", []string{"cat"}},
		{"***", []string{"***"}},
		{"c*t", []string{"c*t"}},
		{"ca{tn}", []string{"cat", "can"}},
		{"{ab}x{cd}", []string{"axc", "axd", "bxc", "bxd"}},
		{"{a*}b", []string{"ab", "*b"}},
		{"3", []string{"***"}},
		{"a3", []string{"a***"}},
		{"a2b", []string{"a**b"}},
		{"12", []string{strings.Repeat("*", 12)}},
		{"x10y", []string{"x" + strings.Repeat("*", 10) + "y"}},
		{"0a", []string{"a"}},
		{"2:4", []string{"**", "***", "****"}},
		{"a2:4b", []string{"a**b", "a***b", "a****b"}},
		{"4:2", []string{"****"}},
		{"3:3", []string{"***"}},
		{"1:12", func() []string {
			var out []string
			for n := 1; n <= 12; n++ {
				out = append(out, strings.Repeat("*", n))
			}
			return out
		}()},
		{"{ab}1", []string{"a*", "b*"}},
		{"1:2x1:2", []string{"*x*", "**x*", "*x**", "**x**"}},
		{"{ab}1:2", []string{"a*", "a**", "b*", "b**"}},
	}
	for _, tc := range cases {
		t.Run(tc.pattern, func(t *testing.T) {
			assert.Equal(t, tc.want, compileStrings(t, tc.pattern))
		})
	}
}

// A digit in front of a range contributes its tens before the range branches.
func TestCompileTensBeforeRange(t *testing.T) {
	got := compileStrings(t, "12:4")
	require.Len(t, got, 3)
	assert.Len(t, got[0], 12)
	assert.Len(t, got[1], 13)
	assert.Len(t, got[2], 14)
}

func TestCompileRangeKeepsRestOfPattern(t *testing.T) {
	got := compileStrings(t, "b2:3{ae}d")
	assert.Equal(t, []string{"b**ad", "b***ad", "b**ed", "b***ed"}, got)
}

// A two-digit bound is consumed once, however many templates are in progress.
func TestCompileTwoDigitBoundWithManyTemplates(t *testing.T) {
	got := compileStrings(t, "2:4c{abc}2:10")
	require.Len(t, got, 3*3*9)

	assert.Equal(t, "**ca**", got[0])
	assert.Equal(t, "****ca**", got[2])
	assert.Equal(t, "**ca***", got[3])
	assert.Equal(t, "****ca"+strings.Repeat("*", 10), got[26])
	assert.Equal(t, "**cb**", got[27])
	for i, tmpl := range got {
		assert.Equal(t, "c"+string("abc"[i/27]), strings.Trim(tmpl, "*"), tmpl)
	}
}

func TestCompileDoesNotDeduplicate(t *testing.T) {
	assert.Equal(t, []string{"aa", "aa"}, compileStrings(t, "{aa}a"))
	assert.Equal(t, []string{"**", "**"}, compileStrings(t, "{**}*"))
}

func TestCompileDropsUnclosedGroup(t *testing.T) {
	for _, p := range []string{"ab{cd", "{", "x{", "{}", "a{}b"} {
		templates, err := Compile(p)
		require.NoError(t, err, p)
		assert.Empty(t, templates, p)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		pattern string
		err     error
		pos     int
	}{
		{"Cat", ErrInvalidCharacter, 0},
		{"ca?", ErrInvalidCharacter, 2},
		{"café", ErrInvalidCharacter, 3},
		{"a b", ErrInvalidCharacter, 1},
		{"{a1}", ErrInvalidCharacter, 2},
		{"{a:}", ErrInvalidCharacter, 2},
		{"{a{b}}", ErrInvalidPattern, 2},
		{"ab}", ErrInvalidPattern, 2},
		{":3", ErrInvalidPattern, 0},
		{"a:3", ErrInvalidPattern, 1},
		{"3:", ErrInvalidPattern, 1},
		{"3:a", ErrInvalidPattern, 1},
		{"123", ErrInvalidPattern, 2},
		{"2:153", ErrInvalidPattern, 4},
		{"2:5:7", ErrInvalidPattern, 3},
	}
	for _, tc := range cases {
		t.Run(tc.pattern, func(t *testing.T) {
			_, err := Compile(tc.pattern)
			require.ErrorIs(t, err, tc.err)
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tc.pos, perr.Pos)
			assert.Equal(t, tc.pattern, perr.Pattern)
		})
	}
}

func TestCompileTemplateCap(t *testing.T) {
	// 4^6 alternation branches
	p := strings.Repeat("{abcd}", 6)
	_, err := Compile(p, WithMaxTemplates(1000))
	require.ErrorIs(t, err, ErrTooManyTemplates)

	templates, err := Compile(p, WithMaxTemplates(4096))
	require.NoError(t, err)
	assert.Len(t, templates, 4096)

	_, err = Compile("{ab}1:9", WithMaxTemplates(10))
	require.ErrorIs(t, err, ErrTooManyTemplates)

	templates, err = Compile("{ab}1:5", WithMaxTemplates(10))
	require.NoError(t, err)
	assert.Len(t, templates, 10)
}

func TestCompilePatternLengthCap(t *testing.T) {
	_, err := Compile(strings.Repeat("a", 11), WithMaxPatternLength(10))
	require.ErrorIs(t, err, ErrPatternTooLong)

	_, err = Compile(strings.Repeat("a", 10), WithMaxPatternLength(10))
	require.NoError(t, err)

	_, err = Compile(strings.Repeat("a", DefaultMaxPatternLength+1))
	require.ErrorIs(t, err, ErrPatternTooLong)
}

func TestTemplatePredicates(t *testing.T) {
	assert.True(t, Template("c*t").HasLiteral())
	assert.False(t, Template("***").HasLiteral())
	assert.False(t, Template("").HasLiteral())

	assert.True(t, Template("cat").IsExact())
	assert.False(t, Template("c*t").IsExact())
	assert.False(t, Template("").IsExact())
	assert.Equal(t, 3, Template("c*t").Len())
}

func TestErrorMessage(t *testing.T) {
	_, err := Compile("ab}")
	require.Error(t, err)
	assert.Equal(t, `pattern "ab}" at offset 2: invalid pattern: '}' without '{'`, err.Error())
}
