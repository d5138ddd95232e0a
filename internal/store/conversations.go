// Package store adapts the backend conversation API for the chat session,
// keeping recently used conversations in an in-memory TTL cache.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/internal/models"
)

const (
	DefaultTTL    = 5 * time.Minute
	maxTitleRunes = 50
	listKey       = "list"
)

// Backend is the subset of api.Client the store needs.
type Backend interface {
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	GetConversation(ctx context.Context, id int64) (*models.Conversation, error)
	CreateConversation(ctx context.Context, in api.ConversationCreate) (*models.Conversation, error)
	UpdateConversation(ctx context.Context, id int64, in api.ConversationUpdate) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, id int64) error
}

type Conversations struct {
	backend Backend
	cache   *cache.Cache
	logger  *zap.Logger
}

func NewConversations(backend Backend, ttl time.Duration, logger *zap.Logger) *Conversations {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conversations{
		backend: backend,
		cache:   cache.New(ttl, 2*ttl),
		logger:  logger,
	}
}

func convKey(id int64) string {
	return fmt.Sprintf("conv:%d", id)
}

// List returns the user's conversations, newest first as the backend orders them.
func (s *Conversations) List(ctx context.Context) ([]models.Conversation, error) {
	if cached, ok := s.cache.Get(listKey); ok {
		return cloneList(cached.([]models.Conversation)), nil
	}

	list, err := s.backend.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	s.cache.SetDefault(listKey, cloneList(list))
	for _, c := range list {
		if c.Messages != nil {
			s.cache.SetDefault(convKey(c.ID), c)
		}
	}
	return list, nil
}

func (s *Conversations) Get(ctx context.Context, id int64) (*models.Conversation, error) {
	if cached, ok := s.cache.Get(convKey(id)); ok {
		conv := cached.(models.Conversation)
		conv.Messages = models.CloneMessages(conv.Messages)
		return &conv, nil
	}

	conv, err := s.backend.GetConversation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get conversation %d: %w", id, err)
	}
	s.cache.SetDefault(convKey(id), *conv)
	return conv, nil
}

func (s *Conversations) Create(ctx context.Context, title string, msgs []models.Message) (*models.Conversation, error) {
	conv, err := s.backend.CreateConversation(ctx, api.ConversationCreate{
		Title:    title,
		Messages: msgs,
	})
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	s.remember(*conv)
	s.logger.Debug("conversation created", zap.Int64("id", conv.ID), zap.Int("messages", len(msgs)))
	return conv, nil
}

func (s *Conversations) Update(ctx context.Context, id int64, msgs []models.Message) (*models.Conversation, error) {
	conv, err := s.backend.UpdateConversation(ctx, id, api.ConversationUpdate{Messages: msgs})
	if err != nil {
		return nil, fmt.Errorf("update conversation %d: %w", id, err)
	}
	s.remember(*conv)
	s.logger.Debug("conversation updated", zap.Int64("id", id), zap.Int("messages", len(msgs)))
	return conv, nil
}

// Delete removes a conversation. A 404 means it is already gone and counts
// as success.
func (s *Conversations) Delete(ctx context.Context, id int64) error {
	err := s.backend.DeleteConversation(ctx, id)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("delete conversation %d: %w", id, err)
	}
	s.cache.Delete(convKey(id))
	s.cache.Delete(listKey)
	return nil
}

// Invalidate drops every cached entry, e.g. after a re-login.
func (s *Conversations) Invalidate() {
	s.cache.Flush()
}

func (s *Conversations) remember(conv models.Conversation) {
	s.cache.SetDefault(convKey(conv.ID), conv)
	s.cache.Delete(listKey)
}

func cloneList(in []models.Conversation) []models.Conversation {
	out := make([]models.Conversation, len(in))
	copy(out, in)
	return out
}

// TitleFor derives a conversation title from its first user message.
func TitleFor(msgs []models.Message) string {
	for _, m := range msgs {
		if m.Sender != models.User {
			continue
		}
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		if utf8.RuneCountInString(text) > maxTitleRunes {
			text = string([]rune(text)[:maxTitleRunes])
		}
		return text
	}
	return "New Chat"
}
