package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork reports that a request could not complete.
	ErrNetwork = errors.New("network failure")

	// ErrDecode reports a response body that is not valid JSON.
	ErrDecode = errors.New("malformed response body")
)

// StatusError is returned when the backend answers with a status that does
// not count as success for the operation.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
