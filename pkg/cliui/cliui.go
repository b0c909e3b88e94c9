// Package cliui holds the terminal output helpers shared by pairwise
// commands: a spinner step per model check, check marks and the styles used
// for config keys and values.
package cliui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	StepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	KeyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerInterval = 80 * time.Millisecond

// spinner redraws one line of w until stop is called.
type spinner struct {
	w    io.Writer
	msg  string
	mu   sync.Mutex
	quit chan struct{}
	done chan struct{}
}

func startSpinner(w io.Writer, msg string) *spinner {
	s := &spinner{w: w, msg: msg, quit: make(chan struct{}), done: make(chan struct{})}
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r  %s %s", spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]), s.msg)
		s.mu.Unlock()

		select {
		case <-s.quit:
			return
		case <-ticker.C:
		}
	}
}

// stop halts the animation. No frame is written after stop returns.
func (s *spinner) stop() {
	close(s.quit)
	<-s.done
}

// Step shows a spinner next to msg while fn runs, then rewrites the line
// with a mark and the elapsed time. A failure's message is printed dimmed on
// the following line, one line per line of the error. fn's error is
// returned unchanged.
func Step(w io.Writer, msg string, fn func() error) error {
	sp := startSpinner(w, msg)

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	sp.stop()

	fmt.Fprintf(w, "\r  %s %s %s\n", Mark(err), msg, StepStyle.Render("("+FormatDuration(elapsed)+")"))
	if err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(w, "      %s\n", DimStyle.Render(line))
		}
	}
	return err
}

// Tally prints a closing "n/total noun" line, marked as failed unless every
// step passed.
func Tally(w io.Writer, passed, total int, noun string) {
	mark := SuccessMark
	if passed < total {
		mark = FailMark
	}
	fmt.Fprintf(w, "\n  %s %d/%d %s\n\n", mark, passed, total, noun)
}

// Field prints an indented "key value" line.
func Field(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(key), DimStyle.Render(value))
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
