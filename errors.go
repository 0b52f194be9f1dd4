package travai

import "errors"

var (
	// ErrInvalidTripRequest is matched by every *ValidationError.
	ErrInvalidTripRequest = errors.New("invalid trip request")

	// ErrCredentialsMissing means no calendar credential session could be established.
	ErrCredentialsMissing = errors.New("calendar credentials missing")

	ErrEmptyPlan = errors.New("collaborator returned an empty plan")
)

// ValidationError identifies the first constraint a trip request violates.
type ValidationError struct {
	Field  string
	Reason string
}

func (x *ValidationError) Error() string {
	return x.Field + " " + x.Reason
}

// Is makes errors.Is(err, ErrInvalidTripRequest) hold for any ValidationError.
func (x *ValidationError) Is(target error) bool {
	return target == ErrInvalidTripRequest
}

// ErrRunNotFound is returned by RunRepository.Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")
