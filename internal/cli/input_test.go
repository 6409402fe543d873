package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/wordmatch/pkg/dictionary"
	"github.com/bastiangx/wordmatch/pkg/query"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

func run(t *testing.T, input string, limit int, quit string) string {
	t.Helper()
	s, err := dictionary.NewStore([]string{"cat", "car", "can", "dog"})
	require.NoError(t, err)

	var out bytes.Buffer
	h := NewInputHandler(query.NewEngine(s), strings.NewReader(input), &out, limit, quit)
	require.NoError(t, h.Start())
	return out.String()
}

func TestPrintsMatchesAndSummary(t *testing.T) {
	out := run(t, "ca{tn}\n", 0, "")

	assert.Contains(t, out, "Enter a pattern: ")
	assert.Contains(t, out, "\ncat\ncan\n")
	assert.NotContains(t, out, "car")
	assert.Contains(t, out, "Pattern = ca{tn}, Words matched = 2, Templates = 2, Search time = ")
	assert.NotContains(t, out, "\x1b[", "no escape codes when not writing to a terminal")
}

func TestStopsAtQuitWord(t *testing.T) {
	out := run(t, "dog quit cat", 0, "")
	assert.Contains(t, out, "Pattern = dog,")
	assert.NotContains(t, out, "Pattern = cat,")

	out = run(t, "dog exit cat", 0, "exit")
	assert.NotContains(t, out, "Pattern = cat,")
}

func TestWhitespaceSeparatedPatterns(t *testing.T) {
	out := run(t, "  ***\t\tzzz\n\nd2 ", 0, "")
	assert.Contains(t, out, "Pattern = ***, Words matched = 4,")
	assert.Contains(t, out, "Pattern = zzz, Words matched = 0,")
	assert.Contains(t, out, "Pattern = d2, Words matched = 1,")
	assert.Equal(t, 4, strings.Count(out, "Enter a pattern: "))
}

func TestLimit(t *testing.T) {
	out := run(t, "***", 2, "")
	assert.Contains(t, out, "\ncat\ncar\n... 2 more\n")
	assert.NotContains(t, out, "dog")
	assert.Contains(t, out, "Words matched = 4,")
}

func TestInvalidPatternContinues(t *testing.T) {
	out := run(t, "ab} Cat dog", 0, "")
	assert.NotContains(t, out, "Pattern = ab}")
	assert.NotContains(t, out, "Pattern = Cat")
	assert.Contains(t, out, "Pattern = dog, Words matched = 1,")
}
