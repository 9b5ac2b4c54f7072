package model

import (
	"errors"
	"fmt"
)

// ConnectionMessage is shown to users when every access path failed.
const ConnectionMessage = "Erro de conexão: O servidor da Selecty bloqueou a requisição (CORS). Tente recarregar em alguns instantes."

// HTTPError wraps a non-success HTTP status from a single access attempt.
type HTTPError struct {
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ConnectionError is returned when every strategy in the chain failed.
// Error() is the user-facing message; the individual causes stay reachable
// through errors.Is and errors.As.
type ConnectionError struct {
	Message  string
	Attempts []error
}

func (e *ConnectionError) Error() string {
	if e.Message == "" {
		return ConnectionMessage
	}
	return e.Message
}

func (e *ConnectionError) Unwrap() []error {
	return e.Attempts
}

// Detail joins the per-strategy causes for diagnostics.
func (e *ConnectionError) Detail() string {
	if len(e.Attempts) == 0 {
		return ""
	}
	return errors.Join(e.Attempts...).Error()
}
