// Package llm selects a text generation backend by name.
package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"github.com/m-mizutani/travai/llm/claude"
	"github.com/m-mizutani/travai/llm/gemini"
	"github.com/m-mizutani/travai/llm/openai"
)

// Provider names a supported backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderClaude Provider = "claude"
)

// Providers lists every supported backend.
var Providers = []Provider{ProviderGemini, ProviderOpenAI, ProviderClaude}

// ParseProvider converts a backend name, case-insensitively.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", goerr.New("unknown LLM provider", goerr.V("provider", s))
}

// Config holds the settings needed by any backend. Fields that do not apply to the
// chosen provider are ignored.
type Config struct {
	Provider Provider
	APIKey   string
	Model    string

	// GCPProject and GCPLocation route Gemini and Claude through Vertex AI when set.
	GCPProject  string
	GCPLocation string

	// BaseURL overrides the OpenAI endpoint.
	BaseURL string
}

// New creates the TextGenerator for cfg.Provider.
func New(ctx context.Context, cfg Config) (travai.TextGenerator, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		options := []gemini.Option{gemini.WithModel(cfg.Model)}
		if cfg.GCPProject != "" {
			options = append(options, gemini.WithVertexAI(cfg.GCPProject, cfg.GCPLocation))
		}
		client, err := gemini.New(ctx, cfg.APIKey, options...)
		if err != nil {
			return nil, err
		}
		return client, nil

	case ProviderOpenAI:
		options := []openai.Option{openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			options = append(options, openai.WithBaseURL(cfg.BaseURL))
		}
		client, err := openai.New(ctx, cfg.APIKey, options...)
		if err != nil {
			return nil, err
		}
		return client, nil

	case ProviderClaude:
		options := []claude.Option{claude.WithModel(cfg.Model)}
		if cfg.GCPProject != "" {
			options = append(options, claude.WithVertexAI(cfg.GCPProject, cfg.GCPLocation))
		}
		client, err := claude.New(ctx, cfg.APIKey, options...)
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, goerr.New("unknown LLM provider", goerr.V("provider", cfg.Provider))
	}
}
