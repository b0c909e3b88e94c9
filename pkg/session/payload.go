// Package session turns a client-submitted comparison session into the flat
// record appended to the conversation log.
package session

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidPayload is returned when the body is not JSON at all.
var ErrInvalidPayload = errors.New("session payload is not valid JSON")

// Payload is the loosely typed session record. Every field is optional.
// Nested values stay as gjson results so that missing keys can be told apart
// from empty ones when the transcript is rendered.
type Payload struct {
	SystemPrompt   string
	FailureMode    string
	Intent         string
	SubCategory    string
	OverallFailure string

	HistoryWeak   []gjson.Result
	HistoryStrong []gjson.Result
	Evaluations   []gjson.Result
}

// Parse reads a session payload. Absent or mistyped fields fall back to
// empty strings and empty lists; only a body that is not JSON is rejected.
func Parse(body []byte) (*Payload, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidPayload
	}

	doc := gjson.ParseBytes(body)
	return &Payload{
		SystemPrompt:   doc.Get("system_prompt").String(),
		FailureMode:    doc.Get("failure_mode").String(),
		Intent:         doc.Get("intent").String(),
		SubCategory:    doc.Get("sub_category").String(),
		OverallFailure: doc.Get("overall_failure").String(),
		HistoryWeak:    list(doc.Get("history_weak")),
		HistoryStrong:  list(doc.Get("history_strong")),
		Evaluations:    list(doc.Get("evaluations")),
	}, nil
}

// list returns the elements of a JSON array, or nil for anything else.
func list(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}
