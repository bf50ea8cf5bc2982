// Package types holds the wire envelopes shared by every JSON endpoint
// except the scan triggers, whose body shape is fixed by the scheduler
// integration and written unwrapped.
package types

// SuccessEnvelope wraps every successful JSON response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error payload. Details are only populated for
// codes whose metadata allows them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
