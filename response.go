package travai

// TripResponse is the final result returned to the caller.
type TripResponse struct {
	Flights    string `json:"flights"`
	Stay       string `json:"stay"`
	Activities string `json:"activities"`

	// Calendar is present iff the request asked for calendar integration.
	Calendar *CalendarOutcome `json:"calendar,omitempty"`
}

// Assemble renders each fragment verbatim, diagnostics included, and attaches the
// calendar outcome when there is one.
func Assemble(plan *TripPlan, calendar *CalendarOutcome) *TripResponse {
	return &TripResponse{
		Flights:    plan.Fragment(ProducerFlights).Content,
		Stay:       plan.Fragment(ProducerStay).Content,
		Activities: plan.Fragment(ProducerActivities).Content,
		Calendar:   calendar,
	}
}
