// Package mcp exposes the trip-planning pipeline as a Model Context Protocol tool.
package mcp

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// DefaultServerName is advertised to MCP clients.
	DefaultServerName = "travai"
	// ToolName is the name of the planning tool.
	ToolName = "plan_trip"
)

// Runner executes one planning run. *travai.Service implements it.
type Runner interface {
	Run(ctx context.Context, input *travai.TripInput) (*travai.Run, error)
}

// PlanTripInput is the argument of the plan_trip tool.
type PlanTripInput struct {
	Origin        string  `json:"origin" jsonschema:"city the traveler departs from"`
	Destination   string  `json:"destination" jsonschema:"city the traveler visits"`
	StartDate     string  `json:"start_date" jsonschema:"first day of the trip in YYYY-MM-DD"`
	EndDate       string  `json:"end_date" jsonschema:"last day of the trip in YYYY-MM-DD, not before start_date"`
	Budget        float64 `json:"budget" jsonschema:"total budget in US dollars, greater than zero"`
	AddToCalendar bool    `json:"add_to_calendar,omitempty" jsonschema:"create Google Calendar events for the plan"`
}

// PlanTripOutput is the structured result of the plan_trip tool.
type PlanTripOutput struct {
	RunID      string                  `json:"run_id"`
	Flights    string                  `json:"flights"`
	Stay       string                  `json:"stay"`
	Activities string                  `json:"activities"`
	Calendar   *travai.CalendarOutcome `json:"calendar,omitempty"`
}

// Server is an MCP server with the plan_trip tool registered.
type Server struct {
	runner  Runner
	server  *mcp.Server
	name    string
	version string
}

// Option configures a Server.
type Option func(*Server)

// WithImplementation sets the name and version advertised to clients.
func WithImplementation(name, version string) Option {
	return func(s *Server) {
		s.name = name
		s.version = version
	}
}

// NewServer creates a Server backed by runner.
func NewServer(runner Runner, opts ...Option) (*Server, error) {
	if runner == nil {
		return nil, goerr.New("runner is required")
	}

	s := &Server{
		runner: runner,
		name:   DefaultServerName,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(&mcp.Implementation{Name: s.name, Version: s.version}, nil)
	mcp.AddTool(s.server, &mcp.Tool{
		Name: ToolName,
		Description: "Plan a trip. Returns flight options, accommodation and a day-by-day " +
			"activity itinerary, and optionally adds the itinerary to Google Calendar.",
	}, s.planTrip)

	return s, nil
}

func (x *Server) planTrip(ctx context.Context, _ *mcp.CallToolRequest, in PlanTripInput) (*mcp.CallToolResult, PlanTripOutput, error) {
	logger := ctxlog.From(ctx)
	logger.Debug("plan_trip called", slog.String("destination", in.Destination))

	run, err := x.runner.Run(ctx, &travai.TripInput{
		Origin:        in.Origin,
		Destination:   in.Destination,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Budget:        in.Budget,
		AddToCalendar: in.AddToCalendar,
	})
	if err != nil {
		// Returned as a tool error so the calling model can correct its arguments.
		return nil, PlanTripOutput{}, err
	}

	resp := run.Response
	return nil, PlanTripOutput{
		RunID:      run.ID,
		Flights:    resp.Flights,
		Stay:       resp.Stay,
		Activities: resp.Activities,
		Calendar:   resp.Calendar,
	}, nil
}

// Run serves the tool over the given transport until ctx is canceled or the client
// disconnects.
func (x *Server) Run(ctx context.Context, transport mcp.Transport) error {
	if err := x.server.Run(ctx, transport); err != nil {
		return goerr.Wrap(err, "MCP server stopped")
	}
	return nil
}

// RunStdio serves the tool over stdin and stdout.
func (x *Server) RunStdio(ctx context.Context) error {
	return x.Run(ctx, &mcp.StdioTransport{})
}
