package claude

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
)

const (
	DefaultModel = "claude-sonnet-4-5"

	// DefaultVertexModel is the model name used when routing through Vertex AI.
	DefaultVertexModel = "claude-sonnet-4-5@20250929"
)

var (
	claudePromptScope   = ctxlog.NewScope("claude_prompt", ctxlog.EnabledBy("TRAVAI_LOGGING_CLAUDE_PROMPT"))
	claudeResponseScope = ctxlog.NewScope("claude_response", ctxlog.EnabledBy("TRAVAI_LOGGING_CLAUDE_RESPONSE"))
)

// generationParameters represents the parameters for text generation.
type generationParameters struct {
	// Temperature controls randomness in the output. Negative means the API default.
	Temperature float64

	// MaxTokens limits the number of tokens to generate.
	MaxTokens int64
}

// Client is a client for Anthropic's Claude models, either direct or through Vertex AI.
type Client struct {
	apiClient apiClient

	model  string
	params generationParameters

	// vertex routing
	projectID string
	region    string
}

var _ travai.TextGenerator = (*Client)(nil)

// Option is a function that configures a Client.
type Option func(*Client)

// WithModel sets the model to use.
func WithModel(modelName string) Option {
	return func(c *Client) {
		if modelName != "" {
			c.model = modelName
		}
	}
}

// WithTemperature sets the temperature parameter for text generation.
// Range: 0.0 to 1.0
func WithTemperature(temp float64) Option {
	return func(c *Client) {
		c.params.Temperature = temp
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
// Default: 4096
func WithMaxTokens(maxTokens int64) Option {
	return func(c *Client) {
		c.params.MaxTokens = maxTokens
	}
}

// WithVertexAI routes requests through Vertex AI using Google application default
// credentials instead of an Anthropic API key.
func WithVertexAI(projectID, region string) Option {
	return func(c *Client) {
		c.projectID = projectID
		c.region = region
	}
}

// New creates a new client for the Claude API. apiKey may be empty when WithVertexAI is given.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	client := &Client{
		model: DefaultModel,
		params: generationParameters{
			Temperature: -1.0,
			MaxTokens:   4096,
		},
	}
	for _, opt := range options {
		opt(client)
	}

	var requestOptions []option.RequestOption
	switch {
	case client.projectID != "":
		if client.region == "" {
			return nil, goerr.New("region is required for Vertex AI", goerr.V("project_id", client.projectID))
		}
		if client.model == DefaultModel {
			client.model = DefaultVertexModel
		}
		requestOptions = append(requestOptions, vertex.WithGoogleAuth(ctx, client.region, client.projectID))
	case apiKey != "":
		requestOptions = append(requestOptions, option.WithAPIKey(apiKey))
	default:
		return nil, goerr.New("Anthropic API key is required")
	}

	newClient := anthropic.NewClient(requestOptions...)
	client.apiClient = &realAPIClient{client: &newClient}
	return client, nil
}

func (c *Client) createRequest(systemPrompt, prompt string) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.params.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	if c.params.Temperature >= 0 {
		params.Temperature = anthropic.Float(c.params.Temperature)
	}
	return params
}

// Generate sends one message and returns the concatenated text blocks of the reply.
func (c *Client) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	params := c.createRequest(systemPrompt, prompt)

	promptLogger := ctxlog.From(ctx, claudePromptScope)
	if promptLogger.Enabled(ctx, slog.LevelInfo) {
		promptLogger.Info("Claude prompt",
			"model", c.model,
			"system_prompt", systemPrompt,
			"prompt", prompt,
		)
	}

	resp, err := c.apiClient.MessagesNew(ctx, params)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create message", apiErrorOptions(err)...)
	}

	text := processResponse(resp)

	responseLogger := ctxlog.From(ctx, claudeResponseScope)
	if responseLogger.Enabled(ctx, slog.LevelInfo) {
		responseLogger.Info("Claude response",
			"stop_reason", resp.StopReason,
			"usage", map[string]any{
				"input_tokens":  resp.Usage.InputTokens,
				"output_tokens": resp.Usage.OutputTokens,
			},
			"text", text,
		)
	}

	return text, nil
}

func processResponse(resp *anthropic.Message) string {
	if resp == nil {
		return ""
	}

	var texts []string
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			texts = append(texts, block.Text)
		}
	}
	return strings.Join(texts, "")
}

func apiErrorOptions(err error) []goerr.Option {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return nil
	}
	return []goerr.Option{
		goerr.V("status_code", apiErr.StatusCode),
	}
}
