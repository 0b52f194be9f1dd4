package trace

// CollaboratorData holds the outcome of a planning collaborator call.
type CollaboratorData struct {
	Producer      string `json:"producer"`
	Status        string `json:"status"`
	ContentLength int    `json:"content_length"`
}

// ExtractData holds the result of event extraction.
type ExtractData struct {
	Extractor  string `json:"extractor,omitempty"`
	Candidates int    `json:"candidates"`
}

// PublishData holds the aggregate outcome of calendar publishing.
type PublishData struct {
	Status    string `json:"status"`
	Attempted int    `json:"attempted"`
	Created   int    `json:"created"`
}

// EventData holds data of a point-in-time event.
// Kind is a free-form string chosen by the caller.
// Data is any JSON-serializable value.
type EventData struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}
