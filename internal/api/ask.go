package api

import (
	"context"
	"net/http"

	"github.com/Rorical/RoriQuery/internal/models"
)

type AskRequest struct {
	Question  string `json:"question"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

// Ask sends a natural-language question to the inference API. Set confirmed
// when re-sending a question the user approved at the confirmation gate.
func (c *Client) Ask(ctx context.Context, question string, confirmed bool) (*models.AskResponse, error) {
	var out models.AskResponse
	err := c.do(ctx, call{
		method:        http.MethodPost,
		path:          "/ai/ask",
		body:          AskRequest{Question: question, Confirmed: confirmed},
		out:           &out,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
