package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/internal/models"
)

var msgOpts = cmp.Options{
	cmpopts.EquateEmpty(),
	cmp.Comparer(func(a, b models.Row) bool {
		ja, _ := a.MarshalJSON()
		jb, _ := b.MarshalJSON()
		return string(ja) == string(jb)
	}),
}

func TestInitialStateIsGreeting(t *testing.T) {
	s := InitialState()
	want := []models.Message{models.SystemMessage(Greeting)}
	if diff := cmp.Diff(want, s.Messages, msgOpts); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, GateIdle, s.Gate())
	assert.False(t, s.InFlight)
}

func TestReduceAnswer(t *testing.T) {
	s := Reduce(InitialState(), SendStarted{Text: "how many users?"})
	require.True(t, s.InFlight)

	s = Reduce(s, AnswerReceived{Response: models.AskResponse{Answer: "42", SQL: "SELECT count(*) FROM users"}})
	assert.False(t, s.InFlight)
	require.Len(t, s.Messages, 3)
	assert.Equal(t, models.AI, s.Messages[2].Sender)
	assert.Equal(t, "SELECT count(*) FROM users", s.Messages[2].SQL)
	assert.Equal(t, DefaultFollowUps, s.FollowUps)
}

func TestReduceKeepsServerFollowUps(t *testing.T) {
	s := Reduce(InitialState(), SendStarted{Text: "q"})
	s = Reduce(s, AnswerReceived{Response: models.AskResponse{Answer: "a", FollowUps: []string{"next?"}}})
	assert.Equal(t, []string{"next?"}, s.FollowUps)
}

func TestReduceMissingAnswer(t *testing.T) {
	s := Reduce(InitialState(), SendStarted{Text: "q"})
	s = Reduce(s, AnswerReceived{})
	require.Len(t, s.Messages, 3)
	assert.Equal(t, models.SystemMessage(UnexpectedText), s.Messages[2])
	assert.Empty(t, s.FollowUps)
}

func TestReduceDoesNotMutatePrevious(t *testing.T) {
	before := InitialState()
	after := Reduce(before, SendStarted{Text: "q"})
	assert.Len(t, before.Messages, 1)
	assert.Len(t, after.Messages, 2)
}

func TestReducePendingCancelRestoresList(t *testing.T) {
	s := Reduce(InitialState(), SendStarted{Text: "first"})
	s = Reduce(s, AnswerReceived{Response: models.AskResponse{Answer: "ok"}})
	base := models.CloneMessages(s.Messages)

	s = Reduce(s, SendStarted{Text: "delete everything"})
	s = Reduce(s, ConfirmationRequired{Query: "delete everything", Response: models.AskResponse{SQL: "DELETE FROM t", RequiresConfirmation: true}})
	require.Equal(t, GateAwaitingConfirmation, s.Gate())
	require.NotNil(t, s.Pending)
	assert.Equal(t, "delete everything", s.Pending.Query)

	s = Reduce(s, PendingCancelled{})
	assert.Equal(t, GateIdle, s.Gate())
	assert.Nil(t, s.Pending)
	if diff := cmp.Diff(base, s.Messages, msgOpts); diff != "" {
		t.Errorf("cancel did not restore messages (-want +got):\n%s", diff)
	}
}

func TestReduceConfirmClearsPendingOnFailure(t *testing.T) {
	s := Reduce(InitialState(), SendStarted{Text: "drop it"})
	s = Reduce(s, ConfirmationRequired{Query: "drop it"})
	s = Reduce(s, ConfirmStarted{})
	assert.Equal(t, GateIdle, s.Gate())
	assert.True(t, s.InFlight)

	s = Reduce(s, RequestFailed{Err: errors.New("boom")})
	assert.Nil(t, s.Pending)
	assert.False(t, s.InFlight)
	assert.Equal(t, ConnectionText, s.Messages[len(s.Messages)-1].Text)
}

func TestReduceConversationOpened(t *testing.T) {
	s := Reduce(InitialState(), SendStarted{Text: "q"})
	conv := models.Conversation{ID: 7, Messages: []models.Message{models.UserMessage("old")}}
	s = Reduce(s, ConversationOpened{Conversation: conv})
	assert.Equal(t, int64(7), s.ActiveID)
	assert.False(t, s.InFlight)
	assert.Equal(t, []models.Message{models.UserMessage("old")}, s.Messages)

	s = Reduce(s, ConversationOpened{Conversation: models.Conversation{ID: 8}})
	assert.Equal(t, []models.Message{models.SystemMessage(Greeting)}, s.Messages)
}

func TestDescribeError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"cancelled", fmt.Errorf("ask: %w", context.Canceled), CancelledText},
		{"unauthorized", fmt.Errorf("ask: %w", api.ErrUnauthorized), SessionExpiredText},
		{"server", &api.Error{StatusCode: 500, Detail: "query failed"}, "Error: query failed"},
		{"transport", errors.New("dial tcp: connection refused"), ConnectionText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DescribeError(tc.err))
		})
	}
}
