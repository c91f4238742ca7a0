package remote

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

const (
	defaultErrorMessage = "An API error occurred."

	// MsgSessionExpired is the notice shown when ErrSessionExpired ends a call.
	MsgSessionExpired = "Session expired. Please log in again."
)

// ErrSessionExpired is returned when the refresh credential was rejected.
// Stored credentials and identity have been cleared by then.
var ErrSessionExpired = errors.New("remote: session expired")

// RequestError is a non-2xx answer carrying the server's message.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// String includes the status for logs.
func (e *RequestError) String() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// IsDuplicate reports whether err is the server rejecting an already saved URL.
func IsDuplicate(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusConflict
}

// IsUnauthorized reports whether err means the caller must sign in again.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrSessionExpired) {
		return true
	}
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}
