package session_test

import (
	"strings"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/pairwise/pkg/session"
)

func mustParse(body string) *session.Payload {
	p, err := session.Parse([]byte(body))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return p
}

var fixedTime = time.Date(2025, 3, 14, 15, 9, 26, 535000000, time.FixedZone("EST", -5*3600))

func fixedSummarizer() *session.Summarizer {
	return session.NewSummarizer(
		session.WithClock(func() time.Time { return fixedTime }),
		session.WithIDGenerator(func() string { return "task-1" }),
	)
}

var _ = Describe("Parse", func() {
	It("rejects bodies that are not JSON", func() {
		_, err := session.Parse([]byte(`{"system_prompt": `))
		Expect(err).To(MatchError(session.ErrInvalidPayload))
	})

	It("defaults every missing field", func() {
		p := mustParse(`{}`)
		Expect(p.SystemPrompt).To(BeEmpty())
		Expect(p.FailureMode).To(BeEmpty())
		Expect(p.Intent).To(BeEmpty())
		Expect(p.SubCategory).To(BeEmpty())
		Expect(p.OverallFailure).To(BeEmpty())
		Expect(p.HistoryWeak).To(BeEmpty())
		Expect(p.HistoryStrong).To(BeEmpty())
		Expect(p.Evaluations).To(BeEmpty())
	})

	It("treats a non-object body as an empty session", func() {
		p := mustParse(`[1, 2, 3]`)
		Expect(p.HistoryWeak).To(BeEmpty())
		Expect(p.SystemPrompt).To(BeEmpty())
	})

	It("ignores lists that are not arrays", func() {
		p := mustParse(`{"history_weak": "oops", "evaluations": {"A": 1}}`)
		Expect(p.HistoryWeak).To(BeNil())
		Expect(p.Evaluations).To(BeNil())
	})

	It("reads the summary fields", func() {
		p := mustParse(`{
			"system_prompt": "X",
			"failure_mode": "course_correction",
			"intent": "coding",
			"sub_category": "debugging",
			"overall_failure": "40%"
		}`)
		Expect(p.SystemPrompt).To(Equal("X"))
		Expect(p.FailureMode).To(Equal("course_correction"))
		Expect(p.Intent).To(Equal("coding"))
		Expect(p.SubCategory).To(Equal("debugging"))
		Expect(p.OverallFailure).To(Equal("40%"))
	})
})

var _ = Describe("Summarizer", func() {
	It("produces an empty transcript for an empty session", func() {
		rec := session.NewSummarizer().Summarize(mustParse(`{
			"system_prompt": "X", "history_weak": [], "history_strong": [], "evaluations": []
		}`))

		Expect(rec.SystemPrompt).To(Equal("X"))
		Expect(rec.FailureTurns).To(Equal("N/A"))
		Expect(rec.FailureComments).To(Equal("N/A"))
		Expect(rec.WholeConversation).To(BeEmpty())
		_, err := uuid.Parse(rec.TaskID)
		Expect(err).NotTo(HaveOccurred())
	})

	It("generates a fresh task ID for every record", func() {
		s := session.NewSummarizer()
		p := mustParse(`{}`)
		Expect(s.Summarize(p).TaskID).NotTo(Equal(s.Summarize(p).TaskID))
	})

	It("stamps records in UTC", func() {
		rec := fixedSummarizer().Summarize(mustParse(`{}`))
		Expect(rec.TaskID).To(Equal("task-1"))
		Expect(rec.Timestamp).To(Equal("2025-03-14T20:09:26.535Z"))
	})

	It("maps payload fields onto the log columns", func() {
		rec := fixedSummarizer().Summarize(mustParse(`{
			"system_prompt": "sys",
			"failure_mode": "instruction_retention",
			"intent": "writing",
			"sub_category": "email",
			"overall_failure": "high"
		}`))

		Expect(rec.Row()).To(Equal([]string{
			"task-1", "instruction_retention", "writing", "email", "sys", "high",
			"N/A", "N/A", "", "2025-03-14T20:09:26.535Z",
		}))
		Expect(session.Header).To(HaveLen(len(rec.Row())))
	})

	Describe("failure columns", func() {
		It("records a single failing turn with its comment", func() {
			rec := fixedSummarizer().Summarize(mustParse(`{
				"evaluations": [{"failures": {"A": true, "B": false}, "comment": "bad grammar"}]
			}`))
			Expect(rec.FailureTurns).To(Equal("1"))
			Expect(rec.FailureComments).To(Equal("Turn 1: bad grammar"))
		})

		It("joins several failing turns and skips empty comments", func() {
			rec := fixedSummarizer().Summarize(mustParse(`{
				"evaluations": [
					{"failures": {"A": false, "B": true}, "comment": "lost context"},
					{"failures": {"A": false, "B": false}, "comment": "fine"},
					{"failures": {"B": true}, "comment": ""},
					{"failures": {"A": true, "B": true}, "comment": "both wrong"}
				]
			}`))
			Expect(rec.FailureTurns).To(Equal("1, 3, 4"))
			Expect(rec.FailureComments).To(Equal("Turn 1: lost context; Turn 4: both wrong"))
		})

		It("reports N/A when nothing failed, even with comments", func() {
			rec := fixedSummarizer().Summarize(mustParse(`{
				"evaluations": [{"failures": {"A": false, "B": false}, "comment": "great"}, {"comment": "no flags"}]
			}`))
			Expect(rec.FailureTurns).To(Equal("N/A"))
			Expect(rec.FailureComments).To(Equal("N/A"))
		})

		It("lists a failing turn even when no comment was left", func() {
			rec := fixedSummarizer().Summarize(mustParse(`{"evaluations": [{"failures": {"A": true}}]}`))
			Expect(rec.FailureTurns).To(Equal("1"))
			Expect(rec.FailureComments).To(Equal("N/A"))
		})
	})
})

var _ = Describe("WholeConversation", func() {
	It("renders a fully evaluated turn", func() {
		p := mustParse(`{
			"history_weak": [{"user_prompt": "Hi", "model_response": "weak hello"}],
			"history_strong": [{"user_prompt": "Hi", "model_response": "strong hello"}],
			"evaluations": [{
				"ratings": {"A": "3", "B": 5},
				"selectedModel": "B",
				"failures": {"A": true, "B": false},
				"comment": "bad grammar",
				"betterResponses": {"A": "Hello!", "B": ""}
			}]
		}`)

		Expect(session.WholeConversation(p)).To(Equal(strings.Join([]string{
			"--- Turn 1 ---",
			"User: Hi",
			"Model A (weak): weak hello",
			"Model B (strong): strong hello",
			"[Evaluation for Turn 1]",
			"  Selected Model: B",
			"  Model A Rating: 3",
			"  Model B Rating: 5",
			"  Model A Failed: True",
			"  Model B Failed: False",
			"  Failure Comment: bad grammar",
			"  Better Response A: Hello!",
			"  Better Response B: ",
			"\n",
		}, "\n")))
	})

	It("pads to the longest of the histories and evaluations", func() {
		p := mustParse(`{
			"history_weak": [{"user_prompt": "1"}, {"user_prompt": "2"}, {"user_prompt": "3"}],
			"history_strong": [{"user_prompt": "1"}, {"user_prompt": "2"}],
			"evaluations": [{}, {}, {}, {}]
		}`)

		out := session.WholeConversation(p)
		Expect(strings.Count(out, "--- Turn ")).To(Equal(4))
		Expect(out).To(ContainSubstring("--- Turn 4 ---\nUser: N/A\nModel A (weak): N/A\nModel B (strong): N/A\n[Evaluation for Turn 4]"))
	})

	It("marks turns without an evaluation", func() {
		p := mustParse(`{
			"history_weak": [{"user_prompt": "a", "model_response": "x"}, {"user_prompt": "b", "model_response": "y"}],
			"evaluations": [{"selectedModel": "A"}]
		}`)

		out := session.WholeConversation(p)
		Expect(out).To(ContainSubstring("Model B (strong): N/A\n[Evaluation for Turn 1]"))
		Expect(out).To(HaveSuffix("Model B (strong): N/A\n[Evaluation for Turn 2: N/A]\n\n"))
	})

	It("separates consecutive turn blocks by a blank line", func() {
		p := mustParse(`{"history_weak": [{"user_prompt": "a"}, {"user_prompt": "b"}]}`)
		Expect(session.WholeConversation(p)).To(ContainSubstring("[Evaluation for Turn 1: N/A]\n\n\n--- Turn 2 ---"))
	})

	It("falls back to the strong prompt when the weak one is empty", func() {
		p := mustParse(`{
			"history_weak": [{"user_prompt": "", "model_response": "w"}],
			"history_strong": [{"user_prompt": "from strong", "model_response": "s"}]
		}`)
		Expect(session.WholeConversation(p)).To(ContainSubstring("User: from strong\n"))
	})

	It("defaults absent evaluation fields", func() {
		p := mustParse(`{"evaluations": [{"ratings": {}, "comment": null}]}`)

		out := session.WholeConversation(p)
		Expect(out).To(ContainSubstring("  Selected Model: N/A\n"))
		Expect(out).To(ContainSubstring("  Model A Rating: N/A\n"))
		Expect(out).To(ContainSubstring("  Model A Failed: False\n"))
		Expect(out).To(ContainSubstring("  Model B Failed: False\n"))
		Expect(out).To(ContainSubstring("  Failure Comment: N/A\n"))
		Expect(out).To(ContainSubstring("  Better Response B: N/A\n"))
	})

	It("renders explicit nulls like absent values", func() {
		p := mustParse(`{
			"history_weak": [{"user_prompt": "q", "model_response": null}],
			"history_strong": [{"user_prompt": "q", "model_response": "s"}],
			"evaluations": [{
				"selectedModel": null,
				"ratings": {"A": null, "B": 4},
				"failures": {"A": null, "B": null},
				"comment": null,
				"betterResponses": {"A": null, "B": null}
			}]
		}`)

		Expect(session.WholeConversation(p)).To(Equal(strings.Join([]string{
			"--- Turn 1 ---",
			"User: q",
			"Model A (weak): N/A",
			"Model B (strong): s",
			"[Evaluation for Turn 1]",
			"  Selected Model: N/A",
			"  Model A Rating: N/A",
			"  Model B Rating: 4",
			"  Model A Failed: False",
			"  Model B Failed: False",
			"  Failure Comment: N/A",
			"  Better Response A: N/A",
			"  Better Response B: N/A",
			"\n",
		}, "\n")))

		rec := fixedSummarizer().Summarize(p)
		Expect(rec.FailureTurns).To(Equal("N/A"))
		Expect(rec.FailureComments).To(Equal("N/A"))
	})

	It("keeps a present but empty response instead of N/A", func() {
		p := mustParse(`{"history_weak": [{"user_prompt": "q", "model_response": ""}]}`)
		Expect(session.WholeConversation(p)).To(ContainSubstring("Model A (weak): \n"))
	})
})
