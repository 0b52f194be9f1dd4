package travai

import (
	"encoding/json"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
)

// Producer identifies a planning collaborator. The numeric order is the fixed rendering
// order of a TripPlan.
type Producer int

const (
	ProducerFlights Producer = iota
	ProducerStay
	ProducerActivities
)

// Producers lists every producer in plan order.
var Producers = [...]Producer{ProducerFlights, ProducerStay, ProducerActivities}

func (x Producer) String() string {
	switch x {
	case ProducerFlights:
		return "flights"
	case ProducerStay:
		return "stay"
	case ProducerActivities:
		return "activities"
	default:
		return "unknown"
	}
}

// Title is the human readable name used in diagnostic text.
func (x Producer) Title() string {
	switch x {
	case ProducerFlights:
		return "Flight"
	case ProducerStay:
		return "Stay"
	case ProducerActivities:
		return "Activity"
	default:
		return "Unknown"
	}
}

// ParseProducer converts the wire name of a producer.
func ParseProducer(s string) (Producer, error) {
	for _, p := range Producers {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, goerr.New("unknown producer", goerr.V("producer", s))
}

func (x Producer) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

func (x *Producer) UnmarshalText(b []byte) error {
	p, err := ParseProducer(string(b))
	if err != nil {
		return err
	}
	*x = p
	return nil
}

func (x Producer) valid() bool {
	return x >= ProducerFlights && x <= ProducerActivities
}

// FragmentStatus is the outcome of a single collaborator call.
type FragmentStatus string

const (
	FragmentOK       FragmentStatus = "ok"
	FragmentFailed   FragmentStatus = "failed"
	FragmentTimedOut FragmentStatus = "timed-out"
)

// PlanFragment is the output of one collaborator. For failed and timed-out fragments
// Content holds a diagnostic message instead of plan text.
type PlanFragment struct {
	Producer Producer       `json:"producer"`
	Content  string         `json:"content"`
	Status   FragmentStatus `json:"status"`
}

func (x PlanFragment) OK() bool {
	return x.Status == FragmentOK
}

func (x PlanFragment) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("producer", x.Producer.String()),
		slog.String("status", string(x.Status)),
		slog.Int("content_length", len(x.Content)),
	)
}

// TripPlan holds exactly one fragment per producer, always in plan order.
type TripPlan struct {
	fragments [len(Producers)]PlanFragment
}

// NewTripPlan builds a plan from fragments in any order. Producers that are missing get
// a failed fragment; a duplicated producer keeps its first fragment.
func NewTripPlan(fragments ...PlanFragment) *TripPlan {
	plan := &TripPlan{}
	seen := [len(Producers)]bool{}
	for _, f := range fragments {
		if !f.Producer.valid() || seen[f.Producer] {
			continue
		}
		seen[f.Producer] = true
		plan.fragments[f.Producer] = f
	}
	for _, p := range Producers {
		if !seen[p] {
			plan.fragments[p] = failedFragment(p)
		}
	}
	return plan
}

// Fragments returns the fragments in (flights, stay, activities) order.
func (x *TripPlan) Fragments() []PlanFragment {
	out := make([]PlanFragment, len(x.fragments))
	copy(out, x.fragments[:])
	return out
}

// Fragment returns the fragment produced by p.
func (x *TripPlan) Fragment(p Producer) PlanFragment {
	if !p.valid() {
		return PlanFragment{Producer: p, Status: FragmentFailed}
	}
	return x.fragments[p]
}

// Healthy reports whether every fragment has status ok.
func (x *TripPlan) Healthy() bool {
	for _, f := range x.fragments {
		if !f.OK() {
			return false
		}
	}
	return true
}

func (x *TripPlan) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.fragments[:])
}

func (x *TripPlan) UnmarshalJSON(b []byte) error {
	var fragments []PlanFragment
	if err := json.Unmarshal(b, &fragments); err != nil {
		return goerr.Wrap(err, "failed to unmarshal trip plan")
	}
	*x = *NewTripPlan(fragments...)
	return nil
}

func (x *TripPlan) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(x.fragments))
	for _, f := range x.fragments {
		attrs = append(attrs, slog.String(f.Producer.String(), string(f.Status)))
	}
	return slog.GroupValue(attrs...)
}

// Diagnostic texts deliberately carry no dates, clock times or numbers so that the
// event extractor can never turn them into calendar entries.

func failedFragment(p Producer) PlanFragment {
	return PlanFragment{
		Producer: p,
		Status:   FragmentFailed,
		Content:  "⚠️ " + p.Title() + " planning is unavailable: the planning service returned an error. Please try again later.",
	}
}

func emptyFragment(p Producer) PlanFragment {
	return PlanFragment{
		Producer: p,
		Status:   FragmentFailed,
		Content:  "⚠️ " + p.Title() + " planning is unavailable: the planning service returned no content. Please try again later.",
	}
}

func timedOutFragment(p Producer) PlanFragment {
	return PlanFragment{
		Producer: p,
		Status:   FragmentTimedOut,
		Content:  "⚠️ " + p.Title() + " planning did not finish in time. Please try again later.",
	}
}

func canceledFragment(p Producer) PlanFragment {
	return PlanFragment{
		Producer: p,
		Status:   FragmentFailed,
		Content:  "⚠️ " + p.Title() + " planning was canceled before it finished.",
	}
}
