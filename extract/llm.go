package extract

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var eventsSchemaJSON string

const llmSystemPrompt = `You extract calendar events from travel plans.
Return only a JSON object of the form {"events": [...]}. Each event has:
"summary" (short name), "start" (YYYY-MM-DD for all-day events, otherwise YYYY-MM-DDTHH:MM),
optional "end" in the same form, optional "all_day" (true for date-only events),
optional "location", and "source" (one of "flights", "stay", "activities").
Use only events that the plan states with a date or a time. Do not invent events.
Return {"events": []} when there is nothing to extract.`

// LLM asks a text generation model to extract events and validates its answer against
// a JSON schema. Its output is not guaranteed to be deterministic; the window filter,
// end-time default and de-duplication are the same as RuleBased.
type LLM struct {
	generator travai.TextGenerator
	schema    *jsonschema.Schema
}

var _ travai.Extractor = (*LLM)(nil)

// NewLLM creates an LLM-based extractor.
func NewLLM(generator travai.TextGenerator) (*LLM, error) {
	if generator == nil {
		return nil, goerr.New("text generator is required")
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	return &LLM{generator: generator, schema: schema}, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(eventsSchemaJSON))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse events schema")
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("events.json", doc); err != nil {
		return nil, goerr.Wrap(err, "failed to add events schema")
	}
	schema, err := c.Compile("events.json")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile events schema")
	}
	return schema, nil
}

type llmEvent struct {
	Summary  string `json:"summary"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	AllDay   bool   `json:"all_day,omitempty"`
	Location string `json:"location,omitempty"`
	Source   string `json:"source"`
}

type llmAnswer struct {
	Events []llmEvent `json:"events"`
}

// Extract implements travai.Extractor. A generation failure or an answer that does not
// match the schema is returned as an error.
func (x *LLM) Extract(ctx context.Context, plan *travai.TripPlan, span travai.DateRange) ([]*travai.CandidateEvent, error) {
	prompt, ok := buildPrompt(plan, span)
	if !ok {
		return []*travai.CandidateEvent{}, nil
	}

	text, err := x.generator.Generate(ctx, llmSystemPrompt, prompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate events")
	}

	raw := extractJSON(text)
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, goerr.Wrap(err, "model answer is not JSON", goerr.V("answer", text))
	}
	if err := x.schema.Validate(inst); err != nil {
		return nil, goerr.Wrap(err, "model answer does not match events schema", goerr.V("answer", raw))
	}

	var answer llmAnswer
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return nil, goerr.Wrap(err, "failed to decode model answer", goerr.V("answer", raw))
	}

	window := span.Widen(1)
	logger := ctxlog.From(ctx)

	events := make([]*travai.CandidateEvent, 0, len(answer.Events))
	for _, e := range answer.Events {
		ev, err := toCandidate(e)
		if err != nil {
			logger.Warn("dropping extracted event", slog.String("summary", e.Summary), slog.Any("error", err))
			continue
		}
		if !window.Contains(ev.Start) {
			continue
		}
		events = append(events, ev)
	}

	return travai.DedupEvents(events), nil
}

func buildPrompt(plan *travai.TripPlan, span travai.DateRange) (string, bool) {
	if plan == nil {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The trip runs from %s to %s.\n\n",
		span.Start.Format(travai.DateLayout), span.End.Format(travai.DateLayout))

	found := false
	for _, f := range plan.Fragments() {
		if !f.OK() {
			continue
		}
		found = true
		fmt.Fprintf(&b, "### source: %s\n%s\n\n", f.Producer, strings.TrimSpace(f.Content))
	}
	return b.String(), found
}

const (
	llmDateLayout     = "2006-01-02"
	llmDateTimeLayout = "2006-01-02T15:04"
)

func parseLLMTime(s string) (time.Time, bool, error) {
	if t, err := time.Parse(llmDateLayout, s); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(llmDateTimeLayout, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, false, goerr.Wrap(err, "invalid time", goerr.V("value", s))
	}
	return t, false, nil
}

func toCandidate(e llmEvent) (*travai.CandidateEvent, error) {
	source, err := travai.ParseProducer(e.Source)
	if err != nil {
		return nil, err
	}

	start, dateOnly, err := parseLLMTime(e.Start)
	if err != nil {
		return nil, err
	}

	var ev *travai.CandidateEvent
	if e.AllDay || dateOnly {
		ev = travai.NewAllDayEvent(e.Summary, start)
	} else {
		var end time.Time
		if e.End != "" {
			if end, _, err = parseLLMTime(e.End); err != nil {
				return nil, err
			}
		}
		ev = travai.NewCandidateEvent(e.Summary, start, end)
	}

	ev.Location = e.Location
	ev.Source = source
	return ev, nil
}
