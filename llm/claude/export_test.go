package claude

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
)

// APIClientFunc adapts a function to the unexported apiClient interface.
type APIClientFunc func(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)

func (f APIClientFunc) MessagesNew(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return f(ctx, params)
}

// NewWithAPIClient builds a Client around a fake API client.
func NewWithAPIClient(api APIClientFunc, options ...Option) *Client {
	c := &Client{
		model:     DefaultModel,
		apiClient: api,
		params: generationParameters{
			Temperature: -1.0,
			MaxTokens:   4096,
		},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}
