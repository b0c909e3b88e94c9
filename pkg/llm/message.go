// Package llm holds the provider-neutral conversation types shared by the
// relay and the upstream clients.
package llm

// Roles understood by chat-completion providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry in a chat transcript.
type Message struct {
	Role    string `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"` // plain text
}

// NewTextMessage creates a message with the given role and text.
func NewTextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}

// Transcript assembles the messages sent upstream for one model tier: the
// system prompt, then each prior turn as a user/assistant pair in order, then
// the new prompt. The result always has 2*len(history)+2 messages.
func Transcript(systemPrompt string, history []Turn, prompt string) []Message {
	msgs := make([]Message, 0, 2*len(history)+2)
	msgs = append(msgs, NewTextMessage(RoleSystem, systemPrompt))

	for _, turn := range history {
		msgs = append(msgs,
			NewTextMessage(RoleUser, turn.UserPrompt),
			NewTextMessage(RoleAssistant, turn.ModelResponse),
		)
	}

	return append(msgs, NewTextMessage(RoleUser, prompt))
}
