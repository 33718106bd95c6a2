package doh

import "fmt"

// RequestError is returned when the server replied outside the 2xx class.
// The response body is discarded without being decoded.
type RequestError struct {
	StatusCode int    // HTTP status code, e.g. 404.
	Status     string // Full status line, e.g. "404 Not Found".
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("doh: request failed: %s", e.Status)
}

// DecodeError is returned when a success response carried a body that
// does not conform to the JSON answer schema. Err holds the structural
// cause.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("doh: decoding response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
