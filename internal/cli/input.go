// Package cli handles cmd line input for looking up words interactively, for DBG and testing
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/wordswap/internal/logger"
	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/wordmap"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Source provides the map to query.
type Source interface {
	Current() *wordmap.Map
}

// InputHandler reads words from stdin and prints the word each maps to.
// Lines starting with ':' are commands:
//
//	:words <prefix>  list vocabulary words
//	:info            map statistics
//	:quit            leave
type InputHandler struct {
	source       Source
	in           io.Reader
	out          *log.Logger
	wordStyle    lipgloss.Style
	dimStyle     lipgloss.Style
	limit        int
	showPosition bool
	requestCount int
}

// NewInputHandler creates a handler on stdin/stderr
func NewInputHandler(source Source, limit int, showPosition bool) *InputHandler {
	return NewInputHandlerWithIO(source, limit, showPosition, os.Stdin, os.Stderr)
}

// NewInputHandlerWithIO creates a handler on the given streams
func NewInputHandlerWithIO(source Source, limit int, showPosition bool, r io.Reader, w io.Writer) *InputHandler {
	if limit < 1 {
		limit = 24
	}
	// colors only when w is a terminal
	renderer := lipgloss.NewRenderer(w)
	return &InputHandler{
		source:       source,
		in:           r,
		out:          logger.NewWithWriter(w, ""),
		wordStyle:    renderer.NewStyle().Foreground(lipgloss.Color("75")),
		dimStyle:     renderer.NewStyle().Foreground(lipgloss.Color("245")),
		limit:        limit,
		showPosition: showPosition,
	}
}

// Start runs the loop until the input ends or :quit is entered.
func (h *InputHandler) Start() error {
	h.out.Print("WordSwap CLI")
	h.out.Print("type a word and press Enter to see its pair, :words <prefix>, :info or :quit")

	reader := bufio.NewReader(h.in)
	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if h.handleInput(line) {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput processes one line, reporting whether the loop should end.
func (h *InputHandler) handleInput(line string) bool {
	h.requestCount++

	m := h.source.Current()
	if m == nil {
		h.out.Error("No word map loaded")
		return false
	}

	if cmd, ok := strings.CutPrefix(line, ":"); ok {
		name, arg, _ := strings.Cut(cmd, " ")
		switch name {
		case "q", "quit", "exit":
			return true
		case "words":
			h.listWords(m, strings.TrimSpace(arg))
		case "info":
			h.printInfo(m)
		default:
			h.out.Errorf("Unknown command: :%s", name)
		}
		return false
	}

	h.lookup(m, line)
	return false
}

func (h *InputHandler) lookup(m *wordmap.Map, word string) {
	start := time.Now()
	out, err := m.Lookup(word)
	elapsed := time.Since(start)
	if err != nil {
		switch {
		case errors.Is(err, wordmap.ErrNotFound):
			h.out.Warnf("'%s' is not in the vocabulary", word)
		default:
			h.out.Errorf("%v", err)
		}
		return
	}
	log.Debugf("Took [ %v ] for '%s'", elapsed, word)

	if h.showPosition {
		pos, _ := m.Position(word)
		h.out.Printf("%s -> %s %s", word, h.wordStyle.Render(out), h.dimStyle.Render(fmt.Sprintf("(at %.12f)", pos)))
		return
	}
	h.out.Printf("%s -> %s", word, h.wordStyle.Render(out))
}

func (h *InputHandler) listWords(m *wordmap.Map, prefix string) {
	words := m.Words(prefix, h.limit)
	if len(words) == 0 {
		h.out.Warnf("No words start with '%s'", prefix)
		return
	}
	h.out.Printf("Found %d words for prefix '%s':", len(words), prefix)
	for i, w := range words {
		h.out.Printf("%2d. %s", i+1, h.wordStyle.Render(w))
	}
}

func (h *InputHandler) printInfo(m *wordmap.Map) {
	stats := m.Stats()
	h.out.Printf("words:      %s", utils.FormatWithCommas(stats.Entries))
	h.out.Printf("symbols:    %d", stats.Symbols)
	h.out.Printf("characters: %s", utils.FormatWithCommas(int(stats.Characters)))
	h.out.Printf("entropy:    %.3f bits/symbol", stats.Entropy)
	h.out.Printf("requests:   %d", h.requestCount)
}
