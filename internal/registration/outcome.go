package registration

import (
	"errors"
	"net/http"
)

// Kind is the category of a mapped outcome.
type Kind int

const (
	// Success renders the flow.
	Success Kind = iota
	// ClientFailure is a problem with the user's registration attempt.
	ClientFailure
	// ServerFailure is an unreachable or misbehaving identity provider.
	ServerFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ClientFailure:
		return "client_failure"
	default:
		return "server_failure"
	}
}

// Outcome is what the HTTP boundary acts on. Flow is set only for Success;
// Message is set only for failures and is safe to show to the user. Err holds
// the underlying cause for logging and is never written to the response.
type Outcome struct {
	Kind    Kind
	Flow    *Flow
	Message string
	Err     error
}

// Status returns the HTTP status code for the outcome.
func (o Outcome) Status() int {
	switch o.Kind {
	case Success:
		return http.StatusOK
	case ClientFailure:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Map folds the result of retrieval and classification into an Outcome.
// A nil err with a non-nil flow is Success; a *MessagesError is a
// ClientFailure carrying the combined text; anything else, including
// retrieval and deserialization errors, is a ServerFailure described by
// the error's message.
func Map(flow *Flow, err error) Outcome {
	if err == nil {
		if flow == nil {
			return Outcome{
				Kind:    ServerFailure,
				Message: "no flow returned",
				Err:     errors.New("no flow returned"),
			}
		}
		return Outcome{Kind: Success, Flow: flow}
	}

	var msgs *MessagesError
	if errors.As(err, &msgs) {
		return Outcome{Kind: ClientFailure, Message: msgs.Text(), Err: err}
	}

	return Outcome{Kind: ServerFailure, Message: err.Error(), Err: err}
}
