// Package insight implements the LLM-backed business intelligence
// operations: each one issues at most one completion call and normalizes
// the model's free-text reply into a structured payload.
package insight

import "fmt"

// Status is the outcome tag carried by every operation envelope.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Envelope is the uniform result shape returned by every operation.
// Data is set on success, Message on error; never both.
type Envelope struct {
	Status  Status `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success wraps data in a success envelope.
func Success(data any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data}
}

// Error wraps a diagnostic message in an error envelope.
func Error(msg string) Envelope {
	return Envelope{Status: StatusError, Message: msg}
}

// Errorf formats a diagnostic message into an error envelope.
func Errorf(format string, args ...any) Envelope {
	return Envelope{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}
