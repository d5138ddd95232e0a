package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rorical/RoriQuery/internal/eventbus"
	"github.com/Rorical/RoriQuery/internal/models"
)

func nextState(t *testing.T, eb *eventbus.EventBus, match func(models.SessionSnapshot) bool) models.SessionSnapshot {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-eb.CoreToUI():
			if su, ok := ev.(eventbus.StateUpdateEvent); ok && match(su.Snapshot) {
				return su.Snapshot
			}
		case <-timeout:
			t.Fatal("timed out waiting for state update")
		}
	}
}

func nextNotice(t *testing.T, eb *eventbus.EventBus) eventbus.NoticeEvent {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-eb.CoreToUI():
			if n, ok := ev.(eventbus.NoticeEvent); ok {
				return n
			}
		case <-timeout:
			t.Fatal("timed out waiting for notice")
		}
	}
}

func TestServiceRoundTrip(t *testing.T) {
	eb := eventbus.NewEventBus()
	cs := NewChatService(NewController(confirming(), newMemStore(), zap.NewNop()), eb, zap.NewNop())
	cs.Start()
	defer cs.Stop()

	initial := nextState(t, eb, func(models.SessionSnapshot) bool { return true })
	assert.Len(t, initial.Messages, 1)

	require.NoError(t, eb.SendToCore(eventbus.SendMessageEvent{Message: "drop old rows"}))
	gated := nextState(t, eb, func(s models.SessionSnapshot) bool { return s.Pending != nil })
	assert.Len(t, gated.Messages, 2)

	require.NoError(t, eb.SendToCore(eventbus.SendMessageEvent{Message: "again"}))
	assert.Equal(t, "Confirm or cancel the pending query first.", nextNotice(t, eb).Text)

	require.NoError(t, eb.SendToCore(eventbus.ConfirmationResponseEvent{Approved: true}))
	done := nextState(t, eb, func(s models.SessionSnapshot) bool { return len(s.Messages) == 3 && !s.InFlight })
	assert.Equal(t, "Deleted 12 rows.", done.Messages[2].Text)
}

func TestServiceRejectedConfirmation(t *testing.T) {
	eb := eventbus.NewEventBus()
	cs := NewChatService(NewController(confirming(), newMemStore(), zap.NewNop()), eb, zap.NewNop())
	cs.Start()
	defer cs.Stop()

	require.NoError(t, eb.SendToCore(eventbus.SendMessageEvent{Message: "drop old rows"}))
	nextState(t, eb, func(s models.SessionSnapshot) bool { return s.Pending != nil })

	require.NoError(t, eb.SendToCore(eventbus.ConfirmationResponseEvent{Approved: false}))
	restored := nextState(t, eb, func(s models.SessionSnapshot) bool { return s.Pending == nil && len(s.Messages) == 1 })
	assert.Equal(t, Greeting, restored.Messages[0].Text)
}

func TestServiceSelectMissingConversation(t *testing.T) {
	eb := eventbus.NewEventBus()
	cs := NewChatService(NewController(answering("ok"), newMemStore(), zap.NewNop()), eb, zap.NewNop())
	cs.Start()
	defer cs.Stop()

	require.NoError(t, eb.SendToCore(eventbus.SelectConversationEvent{ID: 42}))
	n := nextNotice(t, eb)
	assert.True(t, n.IsError)
	assert.Equal(t, "Conversation not found.", n.Text)
}

func TestServiceNavigate(t *testing.T) {
	eb := eventbus.NewEventBus()
	cs := NewChatService(NewController(answering("ok"), newMemStore(), zap.NewNop()), eb, zap.NewNop())

	cs.Navigate("/login")
	ev := <-eb.CoreToUI()
	assert.Equal(t, eventbus.NavigateEvent{Path: "/login"}, ev)
	cs.controller.Close()
}
