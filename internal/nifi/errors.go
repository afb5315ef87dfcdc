package nifi

import "fmt"

// APIError is returned when the API answers with anything other than 200 OK
type APIError struct {
	URL        string
	StatusCode int
	Body       string
	// Truncated is set when Body holds only the first maxErrorBody bytes
	Truncated bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Temporary reports whether the status is a server-side failure
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500
}
