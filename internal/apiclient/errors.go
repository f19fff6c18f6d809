package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTimeout           = errors.New("request timed out")
	ErrNetwork           = errors.New("network error")
	ErrUnsupportedMethod = errors.New("unsupported http method")
)

// StatusError is a non-2xx response. Message is taken from the error payload
// when the server sent one.
type StatusError struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// EnvelopeError is a 2xx response whose envelope code is not 200.
type EnvelopeError struct {
	Code    int
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error code %d", e.Code)
	}
	return e.Message
}

// notification is the user-facing text for err, or "" when err should not
// be shown (the caller cancelled).
func notification(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Status {
		case http.StatusBadRequest:
			return orDefault(se.Message, "bad request")
		case http.StatusUnauthorized:
			return "unauthorized, please sign in"
		case http.StatusForbidden:
			return "access denied " + se.Message
		case http.StatusNotFound:
			return "request address error: " + se.Path
		case http.StatusInternalServerError:
			return orDefault(se.Message, "internal server error")
		default:
			return fmt.Sprintf("connection error %d", se.Status)
		}
	}

	var ee *EnvelopeError
	switch {
	case errors.As(err, &ee):
		return ee.Error()
	case errors.Is(err, ErrTimeout):
		return "request timed out"
	case errors.Is(err, ErrNetwork):
		return "network error, contact administrator"
	case errors.Is(err, ErrUnsupportedMethod):
		return err.Error()
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
