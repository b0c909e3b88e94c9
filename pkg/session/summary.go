package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const notAvailable = "N/A"

// Summarizer flattens payloads into records. The clock and ID source are
// swappable so that records can be asserted exactly in tests.
type Summarizer struct {
	now   func() time.Time
	newID func() string
}

// SummarizerOption configures a Summarizer.
type SummarizerOption func(*Summarizer)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) SummarizerOption {
	return func(s *Summarizer) { s.now = now }
}

// WithIDGenerator overrides the random UUID task IDs.
func WithIDGenerator(newID func() string) SummarizerOption {
	return func(s *Summarizer) { s.newID = newID }
}

// NewSummarizer creates a Summarizer using random UUIDs and the wall clock.
func NewSummarizer(opts ...SummarizerOption) *Summarizer {
	s := &Summarizer{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize builds the log record for p under a fresh task ID.
func (s *Summarizer) Summarize(p *Payload) *Record {
	turns, comments := failures(p.Evaluations)

	return &Record{
		TaskID:            s.newID(),
		FailureType:       p.FailureMode,
		Category:          p.Intent,
		SubCategory:       p.SubCategory,
		SystemPrompt:      p.SystemPrompt,
		FailureRate:       p.OverallFailure,
		FailureComments:   joinOrNA(comments, "; "),
		FailureTurns:      joinOrNA(turns, ", "),
		WholeConversation: WholeConversation(p),
		Timestamp:         s.now().UTC().Format(time.RFC3339Nano),
	}
}

// failures collects the 1-based numbers of turns where either model was
// flagged as failing, plus the evaluator comment for each such turn.
func failures(evals []gjson.Result) (turns, comments []string) {
	for i, ev := range evals {
		n := i + 1
		if !ev.Get("failures.A").Bool() && !ev.Get("failures.B").Bool() {
			continue
		}

		turns = append(turns, strconv.Itoa(n))
		if c := ev.Get("comment").String(); c != "" {
			comments = append(comments, fmt.Sprintf("Turn %d: %s", n, c))
		}
	}
	return turns, comments
}

// WholeConversation renders the human-readable transcript stored in the
// whole_conversation column. It spans as many turns as the longest of the
// two histories and the evaluations; gaps are rendered as N/A.
func WholeConversation(p *Payload) string {
	total := max(len(p.HistoryWeak), len(p.HistoryStrong), len(p.Evaluations))

	lines := make([]string, 0, total*14)
	for i := range total {
		n := i + 1
		lines = append(lines,
			fmt.Sprintf("--- Turn %d ---", n),
			"User: "+userPrompt(p, i),
			"Model A (weak): "+response(p.HistoryWeak, i),
			"Model B (strong): "+response(p.HistoryStrong, i),
		)

		if i < len(p.Evaluations) {
			lines = append(lines, evaluationLines(n, p.Evaluations[i])...)
		} else {
			lines = append(lines, fmt.Sprintf("[Evaluation for Turn %d: N/A]", n))
		}

		// blank separator; joined below, so each block ends in "\n\n"
		lines = append(lines, "\n")
	}

	return strings.Join(lines, "\n")
}

// userPrompt prefers the weak history's prompt and falls back to the strong
// one; the two normally match.
func userPrompt(p *Payload, i int) string {
	for _, hist := range [][]gjson.Result{p.HistoryWeak, p.HistoryStrong} {
		if i >= len(hist) {
			continue
		}
		if prompt := hist[i].Get("user_prompt").String(); prompt != "" {
			return prompt
		}
	}
	return notAvailable
}

func response(hist []gjson.Result, i int) string {
	if i >= len(hist) {
		return notAvailable
	}
	return valueOrNA(hist[i].Get("model_response"))
}

func evaluationLines(n int, ev gjson.Result) []string {
	return []string{
		fmt.Sprintf("[Evaluation for Turn %d]", n),
		"  Selected Model: " + valueOrNA(ev.Get("selectedModel")),
		"  Model A Rating: " + valueOrNA(ev.Get("ratings.A")),
		"  Model B Rating: " + valueOrNA(ev.Get("ratings.B")),
		"  Model A Failed: " + flag(ev.Get("failures.A")),
		"  Model B Failed: " + flag(ev.Get("failures.B")),
		"  Failure Comment: " + valueOrNA(ev.Get("comment")),
		"  Better Response A: " + valueOrNA(ev.Get("betterResponses.A")),
		"  Better Response B: " + valueOrNA(ev.Get("betterResponses.B")),
	}
}

// valueOrNA renders a present value verbatim (even when empty) and an
// absent or null one as N/A.
func valueOrNA(r gjson.Result) string {
	if !r.Exists() || r.Type == gjson.Null {
		return notAvailable
	}
	return r.String()
}

// flag renders failure flags as True/False, the spelling existing logs use.
// Non-boolean values are written as given.
func flag(r gjson.Result) string {
	switch r.Type {
	case gjson.True:
		return "True"
	case gjson.False, gjson.Null:
		return "False"
	default:
		return r.String()
	}
}

func joinOrNA(items []string, sep string) string {
	if len(items) == 0 {
		return notAvailable
	}
	return strings.Join(items, sep)
}
