package chat

import "time"

// Speaker labels a transcript entry
type Speaker string

const (
	SpeakerUser      Speaker = "You"
	SpeakerAssistant Speaker = "Assistant"
)

// Entry is one displayed line of the conversation
type Entry struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Transcript is the append-only log of displayed question/answer pairs
type Transcript struct {
	entries []Entry
}

// Append adds an entry at the end
func (t *Transcript) Append(speaker Speaker, text string) {
	t.entries = append(t.entries, Entry{Speaker: speaker, Text: text, At: time.Now()})
}

// Len returns the number of entries
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Entries returns a copy in append order
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// NewestFirst returns a copy with the most recently appended entry first
func (t *Transcript) NewestFirst() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[len(t.entries)-1-i] = e
	}
	return out
}

// Role tags a message sent to the completion service
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of the prompt history
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemInstruction seeds every prompt history
const SystemInstruction = "You are a helpful assistant that answers questions about a tabular dataset. Use the provided column names and data samples to answer precisely."

// PromptHistory is the message sequence sent to the completion service.
// The first message is always the system seed.
type PromptHistory struct {
	messages []Message
}

// NewPromptHistory returns a history holding only the system instruction
func NewPromptHistory() *PromptHistory {
	return &PromptHistory{
		messages: []Message{{Role: RoleSystem, Content: SystemInstruction}},
	}
}

// AppendUser records a user-role prompt
func (h *PromptHistory) AppendUser(content string) {
	h.messages = append(h.messages, Message{Role: RoleUser, Content: content})
}

// Len counts all messages including the system seed
func (h *PromptHistory) Len() int {
	return len(h.messages)
}

// All returns a copy of every message
func (h *PromptHistory) All() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Window returns the system seed followed by the last limit messages after it.
// limit <= 0 returns the whole history.
func (h *PromptHistory) Window(limit int) []Message {
	rest := h.messages[1:]
	if limit > 0 && len(rest) > limit {
		rest = rest[len(rest)-limit:]
	}
	out := make([]Message, 0, len(rest)+1)
	out = append(out, h.messages[0])
	return append(out, rest...)
}
