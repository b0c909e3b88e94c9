package llm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/pairwise/pkg/llm"
)

var _ = Describe("Transcript", func() {
	It("sends only the system prompt and new prompt without history", func() {
		msgs := llm.Transcript("be terse", nil, "hi")

		Expect(msgs).To(Equal([]llm.Message{
			{Role: llm.RoleSystem, Content: "be terse"},
			{Role: llm.RoleUser, Content: "hi"},
		}))
	})

	It("replays history in chronological order before the new prompt", func() {
		history := []llm.Turn{
			{UserPrompt: "q1", ModelResponse: "a1"},
			{UserPrompt: "q2", ModelResponse: "a2"},
		}

		msgs := llm.Transcript("sys", history, "q3")

		Expect(msgs).To(Equal([]llm.Message{
			{Role: llm.RoleSystem, Content: "sys"},
			{Role: llm.RoleUser, Content: "q1"},
			{Role: llm.RoleAssistant, Content: "a1"},
			{Role: llm.RoleUser, Content: "q2"},
			{Role: llm.RoleAssistant, Content: "a2"},
			{Role: llm.RoleUser, Content: "q3"},
		}))
	})

	DescribeTable("length and role alternation",
		func(n int) {
			history := make([]llm.Turn, n)
			msgs := llm.Transcript("sys", history, "next")

			Expect(msgs).To(HaveLen(2*n + 2))
			Expect(msgs[0].Role).To(Equal(llm.RoleSystem))
			for i, m := range msgs[1:] {
				if i%2 == 0 {
					Expect(m.Role).To(Equal(llm.RoleUser))
				} else {
					Expect(m.Role).To(Equal(llm.RoleAssistant))
				}
			}
			Expect(msgs[len(msgs)-1].Role).To(Equal(llm.RoleUser))
		},
		Entry("no turns", 0),
		Entry("one turn", 1),
		Entry("many turns", 7),
	)

	It("keeps empty responses rather than dropping the turn", func() {
		msgs := llm.Transcript("", []llm.Turn{{UserPrompt: "q"}}, "")
		Expect(msgs).To(HaveLen(4))
		Expect(msgs[2]).To(Equal(llm.Message{Role: llm.RoleAssistant, Content: ""}))
	})
})
