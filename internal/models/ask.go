package models

// AskResponse is the inference API's reply to a question.
type AskResponse struct {
	Answer               string   `json:"answer"`
	SQL                  string   `json:"sql,omitempty"`
	Data                 []Row    `json:"data,omitempty"`
	RequiresConfirmation bool     `json:"requires_confirmation,omitempty"`
	AffectedRows         int      `json:"affected_rows,omitempty"`
	FollowUps            []string `json:"follow_ups,omitempty"`
}

// PendingQuery holds a question whose SQL needs user approval. It lives only
// while the confirmation gate is open.
type PendingQuery struct {
	Query    string
	Response AskResponse
}

// SessionSnapshot is the chat state the UI renders.
type SessionSnapshot struct {
	Messages      []Message
	InFlight      bool
	Pending       *PendingQuery
	FollowUps     []string
	ActiveID      int64
	Conversations []ConversationSummary
}
