package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"github.com/sashabaranov/go-openai"
)

var (
	// openaiPromptScope is the logging scope for OpenAI prompts
	openaiPromptScope = ctxlog.NewScope("openai_prompt", ctxlog.EnabledBy("TRAVAI_LOGGING_OPENAI_PROMPT"))

	// openaiResponseScope is the logging scope for OpenAI responses
	openaiResponseScope = ctxlog.NewScope("openai_response", ctxlog.EnabledBy("TRAVAI_LOGGING_OPENAI_RESPONSE"))
)

// generationParameters represents the parameters for text generation.
type generationParameters struct {
	// Temperature controls randomness in the output.
	Temperature float32

	// MaxTokens limits the number of tokens to generate.
	MaxTokens int

	// ReasoningEffort tunes how much reasoning time the model spends ("minimal", "medium", "high").
	ReasoningEffort string
}

// Client is a client for the OpenAI chat completion API and compatible endpoints.
type Client struct {
	apiClient apiClient

	// model is the model to use for chat completions.
	model string

	// baseURL is the custom base URL for the OpenAI API.
	baseURL string

	params generationParameters
}

var _ travai.TextGenerator = (*Client)(nil)

const DefaultModel = "gpt-4o-mini"

// Option is a function that configures a Client.
type Option func(*Client)

// WithModel sets the model to use for chat completions.
// See default model in [DefaultModel].
func WithModel(modelName string) Option {
	return func(c *Client) {
		if modelName != "" {
			c.model = modelName
		}
	}
}

// WithTemperature sets the temperature parameter for text generation.
func WithTemperature(temp float32) Option {
	return func(c *Client) {
		c.params.Temperature = temp
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(maxTokens int) Option {
	return func(c *Client) {
		c.params.MaxTokens = maxTokens
	}
}

// WithReasoningEffort sets the reasoning_effort parameter for reasoning models.
func WithReasoningEffort(effort string) Option {
	return func(c *Client) {
		c.params.ReasoningEffort = effort
	}
}

// WithBaseURL sets a custom base URL, for compatible endpoints and proxies.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// New creates a new client for the OpenAI API.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.New("OpenAI API key is required")
	}

	client := &Client{
		model: DefaultModel,
	}
	for _, option := range options {
		option(client)
	}

	config := openai.DefaultConfig(apiKey)
	if client.baseURL != "" {
		config.BaseURL = client.baseURL
	}

	client.apiClient = &realAPIClient{client: openai.NewClientWithConfig(config)}
	return client, nil
}

func (c *Client) createRequest(systemPrompt, prompt string) openai.ChatCompletionRequest {
	var messages []openai.ChatCompletionMessage
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	return openai.ChatCompletionRequest{
		Model:           c.model,
		Messages:        messages,
		Temperature:     c.params.Temperature,
		MaxTokens:       c.params.MaxTokens,
		ReasoningEffort: c.params.ReasoningEffort,
	}
}

// Generate sends one chat completion request and returns the first choice's content.
func (c *Client) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	req := c.createRequest(systemPrompt, prompt)

	promptLogger := ctxlog.From(ctx, openaiPromptScope)
	if promptLogger.Enabled(ctx, slog.LevelInfo) {
		promptLogger.Info("OpenAI prompt",
			"model", req.Model,
			"system_prompt", systemPrompt,
			"prompt", prompt,
		)
	}

	resp, err := c.apiClient.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create chat completion", apiErrorOptions(err)...)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	text := resp.Choices[0].Message.Content

	responseLogger := ctxlog.From(ctx, openaiResponseScope)
	if responseLogger.Enabled(ctx, slog.LevelInfo) {
		responseLogger.Info("OpenAI response",
			"finish_reason", resp.Choices[0].FinishReason,
			"usage", map[string]any{
				"prompt_tokens":     resp.Usage.PromptTokens,
				"completion_tokens": resp.Usage.CompletionTokens,
			},
			"text", text,
		)
	}

	return text, nil
}

func apiErrorOptions(err error) []goerr.Option {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}
	return []goerr.Option{
		goerr.V("status_code", apiErr.HTTPStatusCode),
		goerr.V("type", apiErr.Type),
	}
}
