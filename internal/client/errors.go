package client

import "fmt"

// APIError represents a failed call against the rental API with the
// HTTP status code it came back with. A zero StatusCode means the
// request never produced a response (transport failure).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code int, message string) *APIError {
	return &APIError{
		StatusCode: code,
		Message:    message,
	}
}
