package extract_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/travai"
	"github.com/m-mizutani/travai/extract"
	"github.com/m-mizutani/travai/mock"
)

func answering(text string, err error) *mock.TextGeneratorMock {
	return &mock.TextGeneratorMock{
		GenerateFunc: func(ctx context.Context, systemPrompt, prompt string) (string, error) {
			return text, err
		},
	}
}

func TestLLMExtract(t *testing.T) {
	ctx := context.Background()
	span := tripRange(t, "2025-06-01", "2025-06-05")
	plan := travai.NewTripPlan(
		okFragment(travai.ProducerFlights, "AF007 departs 2025-06-01 10:30"),
		okFragment(travai.ProducerActivities, "Day 2: Louvre in the morning"),
	)

	gen := answering("Here are the events:\n```json\n"+`{"events": [
  {"summary": "Flight AF007", "start": "2025-06-01T10:30", "source": "flights"},
  {"summary": "Louvre Museum", "start": "2025-06-02T09:00", "end": "2025-06-02T12:00", "location": "Rue de Rivoli", "source": "activities"},
  {"summary": "Louvre Museum", "start": "2025-06-02T09:00", "source": "activities"},
  {"summary": "Versailles", "start": "2025-06-03", "source": "activities"},
  {"summary": "Later trip", "start": "2025-08-01", "source": "activities"}
]}`+"\n```", nil)

	x, err := extract.NewLLM(gen)
	gt.NoError(t, err)

	events, err := x.Extract(ctx, plan, span)
	gt.NoError(t, err)
	gt.A(t, events).Length(3)

	gt.Equal(t, events[0].Summary, "Flight AF007")
	gt.Equal(t, events[0].End, at(t, "2025-06-01T11:30"))
	gt.Equal(t, events[0].Source, travai.ProducerFlights)

	gt.Equal(t, events[1].End, at(t, "2025-06-02T12:00"))
	gt.Equal(t, events[1].Location, "Rue de Rivoli")

	gt.True(t, events[2].AllDay)
	gt.Equal(t, events[2].Start, day(t, "2025-06-03"))

	calls := gen.GenerateCalls()
	gt.A(t, calls).Length(1)
	gt.S(t, calls[0].Prompt).Contains("AF007 departs")
	gt.S(t, calls[0].Prompt).Contains("source: activities")
	gt.False(t, strings.Contains(calls[0].Prompt, "source: stay"))
}

func TestLLMExtractInvalidAnswer(t *testing.T) {
	ctx := context.Background()
	span := tripRange(t, "2025-06-01", "2025-06-05")
	plan := travai.NewTripPlan(okFragment(travai.ProducerActivities, "Day 1 Louvre"))

	testCases := map[string]string{
		"not json":       "I could not find any events.",
		"missing source": `{"events": [{"summary": "Louvre", "start": "2025-06-01"}]}`,
		"bad start":      `{"events": [{"summary": "Louvre", "start": "June 1", "source": "activities"}]}`,
		"unknown field":  `{"events": [], "note": "none"}`,
	}

	for name, answer := range testCases {
		t.Run(name, func(t *testing.T) {
			x, err := extract.NewLLM(answering(answer, nil))
			gt.NoError(t, err)
			_, err = x.Extract(ctx, plan, span)
			gt.Error(t, err)
		})
	}
}

func TestLLMExtractGeneratorError(t *testing.T) {
	x, err := extract.NewLLM(answering("", errors.New("quota exceeded")))
	gt.NoError(t, err)

	plan := travai.NewTripPlan(okFragment(travai.ProducerActivities, "Day 1 Louvre"))
	_, err = x.Extract(context.Background(), plan, tripRange(t, "2025-06-01", "2025-06-05"))
	gt.Error(t, err)
}

func TestLLMExtractNoUsableFragments(t *testing.T) {
	gen := answering(`{"events": []}`, nil)
	x, err := extract.NewLLM(gen)
	gt.NoError(t, err)

	events, err := x.Extract(context.Background(), travai.NewTripPlan(), tripRange(t, "2025-06-01", "2025-06-05"))
	gt.NoError(t, err)
	gt.A(t, events).Length(0)
	gt.A(t, gen.GenerateCalls()).Length(0)
}

func TestNewLLMRequiresGenerator(t *testing.T) {
	_, err := extract.NewLLM(nil)
	gt.Error(t, err)
}
