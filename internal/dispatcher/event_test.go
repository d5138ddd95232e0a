package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriQuery/internal/eventbus"
	"github.com/Rorical/RoriQuery/internal/update"
)

func TestListenForCoreEvents(t *testing.T) {
	eb := eventbus.NewEventBus()
	ed := NewEventDispatcher(eb)
	defer ed.Stop()

	require.NoError(t, eb.SendToUI(eventbus.NavigateEvent{Path: "/login"}))
	msg := ed.ListenForCoreEvents()()
	assert.Equal(t, update.CoreEventMsg{Event: eventbus.NavigateEvent{Path: "/login"}}, msg)
}

func TestListenReturnsAfterStop(t *testing.T) {
	ed := NewEventDispatcher(eventbus.NewEventBus())
	ed.Stop()
	assert.Nil(t, ed.ListenForCoreEvents()())
}
