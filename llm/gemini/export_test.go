package gemini

import (
	"context"

	"google.golang.org/genai"
)

var ProcessResponse = processResponse

// APIClientFunc adapts a function to the unexported apiClient interface.
type APIClientFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

func (f APIClientFunc) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return f(ctx, model, contents, config)
}

// NewWithAPIClient builds a Client around a fake API client.
func NewWithAPIClient(api APIClientFunc, options ...Option) *Client {
	var budget int32 = 0
	c := &Client{
		model: DefaultModel,
		generationConfig: &genai.GenerateContentConfig{
			ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: &budget},
		},
		apiClient: api,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}
