package linearapi

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// ErrorKind classifies API client failures.
type ErrorKind int

const (
	KindNoAPIKey ErrorKind = iota + 1
	KindInvalidURL
	KindNetwork
	KindInvalidResponse
	KindGraphQL
	KindDecoding
)

func (k ErrorKind) String() string {
	switch k {
	case KindNoAPIKey:
		return "no_api_key"
	case KindInvalidURL:
		return "invalid_url"
	case KindNetwork:
		return "network"
	case KindInvalidResponse:
		return "invalid_response"
	case KindGraphQL:
		return "graphql"
	case KindDecoding:
		return "decoding"
	default:
		return "unknown"
	}
}

// Error is returned by every Client operation.
type Error struct {
	Kind    ErrorKind
	Message string // GraphQL error text, set for KindGraphQL
	Err     error  // underlying cause, set for KindNetwork and KindDecoding
}

var (
	ErrNoAPIKey        = &Error{Kind: KindNoAPIKey}
	ErrInvalidURL      = &Error{Kind: KindInvalidURL}
	ErrInvalidResponse = &Error{Kind: KindInvalidResponse}
)

// Error returns the user-facing description.
func (e *Error) Error() string {
	switch e.Kind {
	case KindNoAPIKey:
		return "No API key configured"
	case KindInvalidURL:
		return "Invalid API URL"
	case KindNetwork:
		return "Network error: " + causeText(e.Err)
	case KindInvalidResponse:
		return "Invalid response from server"
	case KindGraphQL:
		return "API error: " + e.Message
	case KindDecoding:
		return "Failed to parse response: " + causeText(e.Err)
	default:
		return "Unknown error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. A target with a Message also
// requires the message to match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

func causeText(err error) string {
	if err == nil {
		return "unknown cause"
	}
	return err.Error()
}

// IsKind reports whether err is an *Error of kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func graphQLError(message string) *Error {
	return &Error{Kind: KindGraphQL, Message: message}
}

// classifyError maps an error surfaced by the GraphQL client onto the taxonomy.
// Transport and context failures are network errors; anything else the
// client produced while reading the body is a decoding error.
func classifyError(err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindNetwork, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &Error{Kind: KindNetwork, Err: urlErr.Err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Error{Kind: KindNetwork, Err: err}
	}
	return &Error{Kind: KindDecoding, Err: err}
}
