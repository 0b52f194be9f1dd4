package gemini

import (
	"context"

	"google.golang.org/genai"
)

// apiClient is the subset of the Gemini API used by Client. It is unexported so that
// tests can substitute it without exposing SDK types in the public surface.
type apiClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// realAPIClient wraps the actual Gemini client
type realAPIClient struct {
	client *genai.Client
}

func (r *realAPIClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return r.client.Models.GenerateContent(ctx, model, contents, config)
}
