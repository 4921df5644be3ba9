package manifest

import (
	"context"
	"errors"
	"fmt"
)

// StatusError reports a non-success HTTP response for the manifest.
type StatusError struct {
	Name    string
	Code    int
	Snippet string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Failed to load %s (%d) — %s", e.Name, e.Code, e.Snippet)
}

// ContentTypeError reports a manifest served with a non-JSON content type.
type ContentTypeError struct {
	Got     string
	Snippet string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("Expected JSON, got '%s'. Body: %s", e.Got, e.Snippet)
}

// DecodeError reports a body that is not a JSON array of records.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Invalid games list: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Message converts a load error into the inline text shown in place of
// the grid. Unknown errors fall back to their own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		se *StatusError
		ce *ContentTypeError
		de *DecodeError
	)
	switch {
	case errors.As(err, &se):
		return se.Error()
	case errors.As(err, &ce):
		return ce.Error()
	case errors.As(err, &de):
		return de.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Loading games was interrupted"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error"
}
