package models

import (
	"bytes"
	"fmt"
	"time"
)

// Conversation is a persisted chat owned by the backend.
type Conversation struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id,omitempty"`
	Title        string    `json:"title"`
	Messages     []Message `json:"messages"`
	MessageCount int       `json:"message_count,omitempty"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
}

// Timestamp returns the most recent modification time known for the conversation.
func (c Conversation) Timestamp() time.Time {
	if !c.UpdatedAt.IsZero() {
		return c.UpdatedAt.Time
	}
	return c.CreatedAt.Time
}

// ConversationSummary is the sidebar view of a conversation.
type ConversationSummary struct {
	ID        int64
	Title     string
	Messages  int
	Timestamp time.Time
}

func (c Conversation) Summary() ConversationSummary {
	count := c.MessageCount
	if count == 0 {
		count = len(c.Messages)
	}
	return ConversationSummary{
		ID:        c.ID,
		Title:     c.Title,
		Messages:  count,
		Timestamp: c.Timestamp(),
	}
}

// Timestamp accepts both RFC 3339 and the zone-less ISO form the backend
// emits for naive datetimes.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp: expected string, got %s", data)
	}
	raw := string(data[1 : len(data)-1])
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}
