package gemini

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var (
	// geminiPromptScope is the logging scope for Gemini prompts
	geminiPromptScope = ctxlog.NewScope("gemini_prompt", ctxlog.EnabledBy("TRAVAI_LOGGING_GEMINI_PROMPT"))

	// geminiResponseScope is the logging scope for Gemini responses
	geminiResponseScope = ctxlog.NewScope("gemini_response", ctxlog.EnabledBy("TRAVAI_LOGGING_GEMINI_RESPONSE"))
)

// Client generates text with Google's Gemini models, either through the Gemini API
// (API key) or through Vertex AI (project and location).
type Client struct {
	apiKey    string
	projectID string
	location  string

	apiClient apiClient

	// model is the model used for generation. It can be overridden using WithModel.
	model string

	// generationConfig contains the default generation parameters
	generationConfig *genai.GenerateContentConfig
}

var _ travai.TextGenerator = (*Client)(nil)

// Option is a configuration option for the Gemini client.
type Option func(*Client)

// WithModel sets the model to use for text generation.
// Default: "gemini-2.5-flash"
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithVertexAI routes requests through Vertex AI instead of the Gemini API.
func WithVertexAI(projectID, location string) Option {
	return func(c *Client) {
		c.projectID = projectID
		c.location = location
	}
}

// WithTemperature sets the temperature parameter for text generation.
// Range: 0.0 to 2.0
func WithTemperature(temp float32) Option {
	return func(c *Client) {
		c.generationConfig.Temperature = &temp
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(maxTokens int32) Option {
	return func(c *Client) {
		c.generationConfig.MaxOutputTokens = maxTokens
	}
}

// WithThinkingBudget sets the thinking budget for text generation.
// A value of -1 enables automatic thinking budget allocation.
func WithThinkingBudget(budget int32) Option {
	return func(c *Client) {
		if c.generationConfig.ThinkingConfig == nil {
			c.generationConfig.ThinkingConfig = &genai.ThinkingConfig{}
		}
		c.generationConfig.ThinkingConfig.ThinkingBudget = &budget
	}
}

// New creates a new Gemini client. apiKey is used for the Gemini API backend and may
// be empty when WithVertexAI is given.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	var budget int32 = 0

	client := &Client{
		apiKey: apiKey,
		model:  DefaultModel,
		generationConfig: &genai.GenerateContentConfig{
			ThinkingConfig: &genai.ThinkingConfig{
				ThinkingBudget: &budget,
			},
		},
	}

	for _, option := range options {
		option(client)
	}

	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if client.projectID != "" {
		if client.location == "" {
			return nil, goerr.New("location is required for Vertex AI", goerr.V("project_id", client.projectID))
		}
		config = &genai.ClientConfig{
			Project:  client.projectID,
			Location: client.location,
			Backend:  genai.BackendVertexAI,
		}
	} else if apiKey == "" {
		return nil, goerr.New("Gemini API key is required")
	}

	newClient, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	client.apiClient = &realAPIClient{client: newClient}
	return client, nil
}

// Generate sends one user prompt with a system instruction and returns the joined
// text parts of the answer.
func (c *Client) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if c.generationConfig != nil {
		*config = *c.generationConfig
	}
	config.ResponseMIMEType = "text/plain"
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Role:  "system",
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	promptLogger := ctxlog.From(ctx, geminiPromptScope)
	if promptLogger.Enabled(ctx, slog.LevelInfo) {
		promptLogger.Info("Gemini prompt",
			"model", c.model,
			"system_prompt", systemPrompt,
			"prompt", prompt,
		)
	}

	result, err := c.apiClient.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content", goerr.V("model", c.model))
	}

	text, err := processResponse(result)
	if err != nil {
		return "", err
	}

	responseLogger := ctxlog.From(ctx, geminiResponseScope)
	if responseLogger.Enabled(ctx, slog.LevelInfo) {
		var finishReason string
		if len(result.Candidates) > 0 {
			finishReason = string(result.Candidates[0].FinishReason)
		}
		var usage map[string]any
		if result.UsageMetadata != nil {
			usage = map[string]any{
				"prompt_tokens":     result.UsageMetadata.PromptTokenCount,
				"candidates_tokens": result.UsageMetadata.CandidatesTokenCount,
			}
		}
		responseLogger.Info("Gemini response",
			"finish_reason", finishReason,
			"usage", usage,
			"text", text,
		)
	}

	return text, nil
}

// processResponse joins the text parts of every candidate.
func processResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}

	var texts []string
	for _, candidate := range resp.Candidates {
		if strings.Contains(string(candidate.FinishReason), "PROHIBITED_CONTENT") {
			return "", goerr.New("prohibited content", goerr.V("finish_reason", candidate.FinishReason))
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				texts = append(texts, part.Text)
			}
		}
	}

	return strings.Join(texts, ""), nil
}
