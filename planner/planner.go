// Package planner implements planning collaborators backed by a text generation model.
package planner

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
)

// Collaborator asks a TextGenerator to plan one travel dimension.
type Collaborator struct {
	producer  travai.Producer
	generator travai.TextGenerator
	prompts   *Prompts
}

var _ travai.Collaborator = (*Collaborator)(nil)

// Option configures a Collaborator.
type Option func(*Collaborator)

// WithPrompts replaces the embedded prompt set.
func WithPrompts(p *Prompts) Option {
	return func(c *Collaborator) {
		if p != nil {
			c.prompts = p
		}
	}
}

// New creates the collaborator for producer.
func New(producer travai.Producer, generator travai.TextGenerator, options ...Option) (*Collaborator, error) {
	if _, err := travai.ParseProducer(producer.String()); err != nil {
		return nil, err
	}
	if generator == nil {
		return nil, goerr.New("text generator is required", goerr.V("producer", producer.String()))
	}

	c := &Collaborator{
		producer:  producer,
		generator: generator,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.prompts == nil {
		c.prompts = DefaultPrompts()
	}
	return c, nil
}

// NewAll creates the flights, stay and activities collaborators sharing one generator.
func NewAll(generator travai.TextGenerator, options ...Option) ([]travai.Collaborator, error) {
	out := make([]travai.Collaborator, 0, len(travai.Producers))
	for _, p := range travai.Producers {
		c, err := New(p, generator, options...)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Plan renders the producer's prompt for req and returns the generated text.
func (x *Collaborator) Plan(ctx context.Context, req *travai.TripRequest) (string, error) {
	system, prompt, err := x.prompts.Render(x.producer, req)
	if err != nil {
		return "", err
	}

	ctxlog.From(ctx).Debug("requesting plan",
		slog.String("producer", x.producer.String()),
		slog.Int("prompt_length", len(prompt)),
	)

	text, err := x.generator.Generate(ctx, system, prompt)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate plan", goerr.V("producer", x.producer.String()))
	}
	return text, nil
}
