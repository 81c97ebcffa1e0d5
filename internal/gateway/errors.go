// ABOUTME: Error types returned by the backend gateway client
// ABOUTME: StatusError for non-2xx responses, ErrAborted for cancelled calls

package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAborted reports that the caller cancelled the request before it
// completed. It is never returned as a *StatusError.
var ErrAborted = errors.New("request aborted")

// ErrEmptyReply reports a 2xx chat response that carried no reply object.
var ErrEmptyReply = errors.New("empty reply")

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Status int
	URL    string
	Body   string
}

func (e *StatusError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == 404
}
