package core

import (
	"context"
	"errors"

	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/internal/models"
)

const (
	Greeting           = "Hello! I am your database assistant. Ask me anything about your data."
	CancelledText      = "Request cancelled."
	UnexpectedText     = "Received unexpected response from server."
	ConnectionText     = "Error connecting to the server. Please ensure the backend is running."
	SessionExpiredText = "Your session has expired. Please log in again."
)

// DefaultFollowUps are offered after an answer that came without suggestions.
var DefaultFollowUps = []string{
	"Can you show me more details?",
	"How does this compare to other records?",
	"What are the trends over time?",
}

// State is the chat session as a value. Reduce is the only way it changes.
type State struct {
	Messages  []models.Message
	InFlight  bool
	Pending   *models.PendingQuery
	FollowUps []string
	ActiveID  int64

	// sendBase is the message list as it was before the latest send; the
	// gate restores it on cancel.
	sendBase    []models.Message
	pendingBase []models.Message
}

func InitialState() State {
	return State{Messages: []models.Message{models.SystemMessage(Greeting)}}
}

func (s State) Gate() GateState {
	if s.Pending != nil && !s.InFlight {
		return GateAwaitingConfirmation
	}
	return GateIdle
}

type Event interface {
	isEvent()
}

type (
	SendStarted          struct{ Text string }
	AnswerReceived       struct{ Response models.AskResponse }
	ConfirmationRequired struct {
		Query    string
		Response models.AskResponse
	}
	RequestCancelled   struct{}
	RequestFailed      struct{ Err error }
	ConfirmStarted     struct{}
	PendingCancelled   struct{}
	ChatReset          struct{}
	ConversationOpened struct{ Conversation models.Conversation }
	ConversationSaved  struct{ ID int64 }
)

func (SendStarted) isEvent()          {}
func (AnswerReceived) isEvent()       {}
func (ConfirmationRequired) isEvent() {}
func (RequestCancelled) isEvent()     {}
func (RequestFailed) isEvent()        {}
func (ConfirmStarted) isEvent()       {}
func (PendingCancelled) isEvent()     {}
func (ChatReset) isEvent()            {}
func (ConversationOpened) isEvent()   {}
func (ConversationSaved) isEvent()    {}

// Reduce applies ev to s and returns the new state. It never mutates the
// slices of s.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case SendStarted:
		s.sendBase = s.Messages
		s.Messages = appendMessage(s.Messages, models.UserMessage(e.Text))
		s.InFlight = true
		s.FollowUps = nil

	case ConfirmationRequired:
		s.InFlight = false
		s.Pending = &models.PendingQuery{Query: e.Query, Response: e.Response}
		s.pendingBase = s.sendBase

	case ConfirmStarted:
		s.InFlight = true

	case PendingCancelled:
		if s.Pending != nil {
			s.Messages = s.pendingBase
		}
		s.Pending = nil
		s.pendingBase = nil

	case AnswerReceived:
		s = finishRequest(s)
		resp := e.Response
		if resp.Answer == "" {
			s.Messages = appendMessage(s.Messages, models.SystemMessage(UnexpectedText))
			break
		}
		s.Messages = appendMessage(s.Messages, models.Message{
			Sender: models.AI,
			Text:   resp.Answer,
			SQL:    resp.SQL,
			Data:   resp.Data,
		})
		if len(resp.FollowUps) > 0 {
			s.FollowUps = append([]string(nil), resp.FollowUps...)
		} else {
			s.FollowUps = append([]string(nil), DefaultFollowUps...)
		}

	case RequestCancelled:
		s = finishRequest(s)
		s.Messages = appendMessage(s.Messages, models.SystemMessage(CancelledText))

	case RequestFailed:
		s = finishRequest(s)
		s.Messages = appendMessage(s.Messages, models.SystemMessage(DescribeError(e.Err)))

	case ChatReset:
		s = InitialState()

	case ConversationOpened:
		msgs := models.CloneMessages(e.Conversation.Messages)
		if len(msgs) == 0 {
			msgs = []models.Message{models.SystemMessage(Greeting)}
		}
		s = State{Messages: msgs, ActiveID: e.Conversation.ID}

	case ConversationSaved:
		s.ActiveID = e.ID
	}
	return s
}

// finishRequest ends the in-flight request. Any pending query is cleared
// whatever the outcome.
func finishRequest(s State) State {
	s.InFlight = false
	s.Pending = nil
	s.pendingBase = nil
	return s
}

func appendMessage(msgs []models.Message, m models.Message) []models.Message {
	out := make([]models.Message, len(msgs), len(msgs)+1)
	copy(out, msgs)
	return append(out, m)
}

// DescribeError turns a request failure into the text shown in the chat.
func DescribeError(err error) string {
	switch {
	case err == nil:
		return UnexpectedText
	case errors.Is(err, context.Canceled):
		return CancelledText
	case errors.Is(err, api.ErrUnauthorized):
		return SessionExpiredText
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return "Error: " + apiErr.Error()
	}
	return ConnectionText
}
