package travai

import "context"

//go:generate go tool moq -out mock/travai.go -pkg mock -rm . Collaborator Extractor Publisher TextGenerator RunRepository

// TextGenerator is a single-turn text generation backend. Implementations live under
// llm/ (gemini, openai, claude).
type TextGenerator interface {
	// Generate returns the model's text answer to prompt under the given system instruction.
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}
