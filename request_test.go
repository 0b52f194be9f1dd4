package travai_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/travai"
)

func validInput() *travai.TripInput {
	return &travai.TripInput{
		Origin:        "New York",
		Destination:   "Paris",
		StartDate:     "2025-06-01",
		EndDate:       "2025-06-05",
		Budget:        2000,
		AddToCalendar: true,
	}
}

func TestValidate(t *testing.T) {
	t.Run("accepts a well-formed request", func(t *testing.T) {
		req, err := travai.Validate(validInput())
		gt.NoError(t, err)
		gt.Equal(t, req.Origin(), "New York")
		gt.Equal(t, req.Destination(), "Paris")
		gt.Equal(t, req.StartDate(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		gt.Equal(t, req.EndDate(), time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
		gt.Equal(t, req.Budget(), 2000.0)
		gt.True(t, req.AddToCalendar())
		gt.Equal(t, req.Nights(), 4)
	})

	t.Run("trims names", func(t *testing.T) {
		in := validInput()
		in.Origin = "  Tokyo \t"
		req, err := travai.Validate(in)
		gt.NoError(t, err)
		gt.Equal(t, req.Origin(), "Tokyo")
	})

	t.Run("single day trip is valid", func(t *testing.T) {
		in := validInput()
		in.EndDate = in.StartDate
		req, err := travai.Validate(in)
		gt.NoError(t, err)
		gt.Equal(t, req.Nights(), 0)
	})

	t.Run("round trips through Input", func(t *testing.T) {
		req, err := travai.Validate(validInput())
		gt.NoError(t, err)
		gt.Equal(t, req.Input(), *validInput())
	})

	testCases := map[string]struct {
		mutate func(*travai.TripInput)
		field  string
	}{
		"empty origin": {
			mutate: func(in *travai.TripInput) { in.Origin = " " },
			field:  "origin",
		},
		"empty destination": {
			mutate: func(in *travai.TripInput) { in.Destination = "" },
			field:  "destination",
		},
		"missing start date": {
			mutate: func(in *travai.TripInput) { in.StartDate = "" },
			field:  "start_date",
		},
		"malformed start date": {
			mutate: func(in *travai.TripInput) { in.StartDate = "06/01/2025" },
			field:  "start_date",
		},
		"impossible end date": {
			mutate: func(in *travai.TripInput) { in.EndDate = "2025-02-30" },
			field:  "end_date",
		},
		"end before start": {
			mutate: func(in *travai.TripInput) {
				in.StartDate = "2025-06-10"
				in.EndDate = "2025-06-05"
			},
			field: "end_date",
		},
		"zero budget": {
			mutate: func(in *travai.TripInput) { in.Budget = 0 },
			field:  "budget",
		},
		"negative budget": {
			mutate: func(in *travai.TripInput) { in.Budget = -100 },
			field:  "budget",
		},
		"NaN budget": {
			mutate: func(in *travai.TripInput) { in.Budget = math.NaN() },
			field:  "budget",
		},
		"infinite budget": {
			mutate: func(in *travai.TripInput) { in.Budget = math.Inf(1) },
			field:  "budget",
		},
		"first violation wins": {
			mutate: func(in *travai.TripInput) {
				in.Destination = ""
				in.Budget = -1
			},
			field: "destination",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			tc.mutate(in)

			req, err := travai.Validate(in)
			gt.Value(t, req).Nil()
			gt.True(t, errors.Is(err, travai.ErrInvalidTripRequest))

			var verr *travai.ValidationError
			gt.True(t, errors.As(err, &verr))
			gt.Equal(t, verr.Field, tc.field)
		})
	}

	t.Run("nil input", func(t *testing.T) {
		_, err := travai.Validate(nil)
		gt.True(t, errors.Is(err, travai.ErrInvalidTripRequest))
	})
}

func TestDateRange(t *testing.T) {
	r := travai.DateRange{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
	}

	gt.True(t, r.Contains(time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)))
	gt.True(t, r.Contains(time.Date(2025, 6, 5, 18, 0, 0, 0, time.UTC)))
	gt.False(t, r.Contains(time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)))
	gt.False(t, r.Contains(time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)))

	wide := r.Widen(1)
	gt.True(t, wide.Contains(time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)))
	gt.True(t, wide.Contains(time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC)))
	gt.False(t, wide.Contains(time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)))
}
