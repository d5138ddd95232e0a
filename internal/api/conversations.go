package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Rorical/RoriQuery/internal/models"
)

type ConversationCreate struct {
	Title    string           `json:"title"`
	Messages []models.Message `json:"messages"`
}

type ConversationUpdate struct {
	Title    *string          `json:"title,omitempty"`
	Messages []models.Message `json:"messages,omitempty"`
}

func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var out []models.Conversation
	err := c.do(ctx, call{
		method:        http.MethodGet,
		path:          "/conversations/",
		out:           &out,
		authenticated: true,
	})
	return out, err
}

func (c *Client) GetConversation(ctx context.Context, id int64) (*models.Conversation, error) {
	var out models.Conversation
	err := c.do(ctx, call{
		method:        http.MethodGet,
		path:          fmt.Sprintf("/conversations/%d", id),
		out:           &out,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateConversation(ctx context.Context, in ConversationCreate) (*models.Conversation, error) {
	var out models.Conversation
	err := c.do(ctx, call{
		method:        http.MethodPost,
		path:          "/conversations/",
		body:          in,
		out:           &out,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateConversation(ctx context.Context, id int64, in ConversationUpdate) (*models.Conversation, error) {
	var out models.Conversation
	err := c.do(ctx, call{
		method:        http.MethodPut,
		path:          fmt.Sprintf("/conversations/%d", id),
		body:          in,
		out:           &out,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteConversation(ctx context.Context, id int64) error {
	return c.do(ctx, call{
		method:        http.MethodDelete,
		path:          fmt.Sprintf("/conversations/%d", id),
		authenticated: true,
	})
}
