package travai

import (
	"context"
	"time"

	"github.com/m-mizutani/travai/trace"
)

// Run is the record of one pipeline execution as kept by a RunRepository.
type Run struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Request   TripInput     `json:"request"`
	Plan      *TripPlan     `json:"plan"`
	Response  *TripResponse `json:"response"`
	Trace     *trace.Trace  `json:"trace,omitempty"`
}

// RunRepository persists runs. Get returns an error wrapping ErrRunNotFound for
// unknown IDs.
type RunRepository interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
}
