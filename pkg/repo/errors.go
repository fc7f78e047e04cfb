package repo

import (
	"errors"
	"fmt"
)

// RemoteError is a non 2xx answer of the remote API. Message is the server
// supplied "message" field and may be empty.
type RemoteError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: http status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s: http status %d: %s", e.Endpoint, e.Status, e.Message)
}

// ServerMessage returns the server message carried by err, or fallback.
func ServerMessage(err error, fallback string) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
