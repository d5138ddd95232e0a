package models

// Sender identifies who produced a chat message.
type Sender string

const (
	User   Sender = "user"
	AI     Sender = "ai"
	System Sender = "system"
)

// Message is one entry of a conversation. Messages are appended in order
// and never edited afterwards.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	SQL    string `json:"sql,omitempty"`
	Data   []Row  `json:"data,omitempty"`
}

func SystemMessage(text string) Message {
	return Message{Sender: System, Text: text}
}

func UserMessage(text string) Message {
	return Message{Sender: User, Text: text}
}

// HasData reports whether the message carries a tabular result.
func (m Message) HasData() bool {
	return len(m.Data) > 0
}

// CloneMessages returns a copy of the slice so callers can append without
// aliasing the owner's backing array.
func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
