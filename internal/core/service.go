package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/internal/eventbus"
	"github.com/Rorical/RoriQuery/internal/models"
)

const storeTimeout = 30 * time.Second

// ChatService connects the event bus to a Controller. It owns the core side
// of the bus: UI events go in, snapshots and notices come out.
type ChatService struct {
	controller *Controller
	eventBus   *eventbus.EventBus
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewChatService(controller *Controller, eb *eventbus.EventBus, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cs := &ChatService{
		controller: controller,
		eventBus:   eb,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	controller.SetOnChange(cs.pushStateToUI)
	return cs
}

// Start runs the core logic in a goroutine
func (cs *ChatService) Start() {
	cs.pushStateToUI(cs.controller.Snapshot())
	go cs.eventLoop()
}

// Stop ends the event loop and waits for outstanding requests and saves.
func (cs *ChatService) Stop() {
	cs.cancel()
	<-cs.done
	cs.controller.Close()
}

func (cs *ChatService) Controller() *Controller {
	return cs.controller
}

// Navigate implements nav.Navigator by asking the UI to switch screens.
func (cs *ChatService) Navigate(path string) {
	if err := cs.eventBus.SendToUI(eventbus.NavigateEvent{Path: path}); err != nil {
		cs.logger.Warn("navigate event dropped", zap.String("path", path), zap.Error(err))
	}
}

func (cs *ChatService) eventLoop() {
	defer close(cs.done)
	for {
		select {
		case <-cs.ctx.Done():
			return
		case event, ok := <-cs.eventBus.UIToCore():
			if !ok {
				return
			}
			cs.handleUIEvent(event)
		}
	}
}

func (cs *ChatService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		if err := cs.controller.SendMessage(e.Message); err != nil {
			cs.notice(err)
		}
	case eventbus.ConfirmationResponseEvent:
		if !e.Approved {
			cs.controller.Cancel()
			return
		}
		if err := cs.controller.Confirm(); err != nil {
			cs.notice(err)
		}
	case eventbus.CancelRequestEvent:
		cs.controller.CancelRequest()
	case eventbus.NewChatEvent:
		cs.controller.NewChat()
	case eventbus.SelectConversationEvent:
		cs.withTimeout(func(ctx context.Context) error {
			return cs.controller.SelectConversation(ctx, e.ID)
		})
	case eventbus.DeleteConversationEvent:
		cs.withTimeout(func(ctx context.Context) error {
			return cs.controller.DeleteConversation(ctx, e.ID)
		})
	case eventbus.RefreshConversationsEvent:
		cs.withTimeout(cs.controller.RefreshConversations)
	}
}

func (cs *ChatService) withTimeout(fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(cs.ctx, storeTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		cs.notice(err)
	}
}

func (cs *ChatService) notice(err error) {
	var text string
	switch {
	case errors.Is(err, ErrAwaitingConfirmation):
		text = "Confirm or cancel the pending query first."
	case errors.Is(err, ErrNoPendingQuery):
		text = "Nothing to confirm."
	case errors.Is(err, api.ErrUnauthorized):
		// The session has already redirected to the login screen.
		text = SessionExpiredText
	case errors.Is(err, api.ErrNotFound):
		text = "Conversation not found."
	default:
		text = DescribeError(err)
	}
	cs.logger.Info("notice", zap.String("text", text), zap.Error(err))
	if sendErr := cs.eventBus.SendToUI(eventbus.NoticeEvent{Text: text, IsError: true}); sendErr != nil {
		cs.logger.Warn("notice dropped", zap.Error(sendErr))
	}
}

func (cs *ChatService) pushStateToUI(snap models.SessionSnapshot) {
	if err := cs.eventBus.SendToUI(eventbus.StateUpdateEvent{Snapshot: snap}); err != nil {
		cs.logger.Warn("state update dropped", zap.Error(err))
	}
}
