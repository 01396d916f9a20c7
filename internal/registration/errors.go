package registration

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrRetrieval       = errors.New("flow retrieval failed")
	ErrDeserialization = errors.New("flow deserialization failed")
	ErrFlowMessages    = errors.New("flow reported errors")
	ErrMissingFlow     = errors.New("missing flow parameter")
)

// MessageSeparator joins the text of error messages into one string.
const MessageSeparator = " ; "

// RetrievalError is a transport-level failure reaching or reading from the
// identity provider.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: %v", ErrRetrieval, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

func (e *RetrievalError) Is(target error) bool { return target == ErrRetrieval }

// DeserializationError means the upstream document did not match the flow schema.
type DeserializationError struct {
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDeserialization, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

func (e *DeserializationError) Is(target error) bool { return target == ErrDeserialization }

// MessagesError carries the error-typed messages the provider attached to a
// flow. These describe a problem with the user's registration attempt.
type MessagesError struct {
	Messages []Message
}

// Text joins the message texts, in order, with MessageSeparator.
func (e *MessagesError) Text() string {
	texts := make([]string, len(e.Messages))
	for i, m := range e.Messages {
		texts[i] = m.Text
	}
	return strings.Join(texts, MessageSeparator)
}

func (e *MessagesError) Error() string { return e.Text() }

func (e *MessagesError) Is(target error) bool { return target == ErrFlowMessages }

// MapHTTPStatus maps registration errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrFlowMessages), errors.Is(err, ErrMissingFlow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
