package trace

// CurrentSpanFrom is exported for testing.
var CurrentSpanFrom = currentSpanFrom
