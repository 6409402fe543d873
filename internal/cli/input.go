// Package cli runs the interactive pattern prompt used for testing and debugging.
package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bastiangx/wordmatch/internal/logger"
	"github.com/bastiangx/wordmatch/pkg/query"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// DefaultQuitWord ends the prompt loop when no other word is configured.
const DefaultQuitWord = "quit"

// InputHandler reads patterns from an input stream and prints every
// matching word followed by a summary line. Patterns are separated by any
// whitespace, so a file of patterns can be piped in as well.
type InputHandler struct {
	searcher     query.Searcher
	in           io.Reader
	out          io.Writer
	limit        int
	quitWord     string
	requestCount int
	wordStyle    lipgloss.Style
	logger       *log.Logger
}

// NewInputHandler handles initialization of the InputHandler.
// limit <= 0 prints every match.
func NewInputHandler(searcher query.Searcher, in io.Reader, out io.Writer, limit int, quitWord string) *InputHandler {
	if quitWord == "" {
		quitWord = DefaultQuitWord
	}
	// renderer bound to out, so piped output carries no escape codes
	renderer := lipgloss.NewRenderer(out)
	return &InputHandler{
		searcher:  searcher,
		in:        in,
		out:       out,
		limit:     limit,
		quitWord:  quitWord,
		wordStyle: renderer.NewStyle().Foreground(lipgloss.Color("75")),
		logger:    logger.New("cli"),
	}
}

// Start begins the prompt loop. It returns nil on the quit word or at end of input.
func (h *InputHandler) Start() error {
	scanner := bufio.NewScanner(h.in)
	scanner.Split(bufio.ScanWords)

	h.prompt()
	for scanner.Scan() {
		p := scanner.Text()
		if p == h.quitWord {
			break
		}
		h.handleInput(p)
		h.prompt()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read patterns: %w", err)
	}
	h.logger.Debugf("Handled %d patterns", h.requestCount)
	return nil
}

func (h *InputHandler) prompt() {
	fmt.Fprint(h.out, "Enter a pattern: ")
}

// handleInput runs one pattern. Invalid patterns are logged and skipped.
func (h *InputHandler) handleInput(p string) {
	h.requestCount++

	result, err := h.searcher.Search(p)
	if err != nil {
		h.logger.Errorf("%v", err)
		return
	}

	fmt.Fprintln(h.out)
	for _, w := range h.searcher.Words(result, h.limit) {
		fmt.Fprintln(h.out, h.wordStyle.Render(w))
	}
	if h.limit > 0 && result.Count() > h.limit {
		fmt.Fprintf(h.out, "... %s more\n", humanize.Comma(int64(result.Count()-h.limit)))
	}
	fmt.Fprintf(h.out, "Pattern = %s, Words matched = %s, Templates = %d, Search time = %.9f secs\n",
		p, humanize.Comma(int64(result.Count())), result.Templates, result.Elapsed.Seconds())
}
