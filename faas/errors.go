package faas

import "fmt"

// BadStatusCodeError is returned when the service answers with a non-2xx status code.
type BadStatusCodeError struct {
	StatusCode int
	URL        string

	// Detail is the "detail" field of the response body, or the raw body if it was not JSON.
	Detail string
}

// Error implements the error interface.
func (e *BadStatusCodeError) Error() string {
	msg := fmt.Sprintf("Got http status code %d for request %s", e.StatusCode, e.URL)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
