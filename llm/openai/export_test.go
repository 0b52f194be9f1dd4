package openai

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// APIClientFunc adapts a function to the unexported apiClient interface.
type APIClientFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

func (f APIClientFunc) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f(ctx, req)
}

// NewWithAPIClient builds a Client around a fake API client.
func NewWithAPIClient(api APIClientFunc, options ...Option) *Client {
	c := &Client{model: DefaultModel, apiClient: api}
	for _, opt := range options {
		opt(c)
	}
	return c
}
