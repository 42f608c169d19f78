package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoToken      = errors.New("server sent no auth token")
)

// ServerError is a failure the server reported in the response body.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
