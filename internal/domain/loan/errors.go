package loan

import "errors"

// ErrNotFound is returned by repositories when no application exists
// for the requested id or applicant.
var ErrNotFound = errors.New("loan application not found")

// ValidationError reports the first business rule an application violates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MalformedRecordError reports an application record that cannot be
// rebuilt from a cache or message payload.
type MalformedRecordError struct {
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return "malformed application record: " + e.Reason
}
