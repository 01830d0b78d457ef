// Package apperr defines the closed set of failures the API surfaces to
// clients. Each Kind carries exactly one HTTP status.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	InvalidInput
	MalformedIdentifier
	InvalidVoteValue
	Unauthenticated
	Forbidden
	IdentitySpoofing
	NotFound
	Conflict
	RateLimited
	DataConsistency
)

// Kinds lists every declared Kind. Keep in sync with the const block.
var Kinds = []Kind{
	Internal,
	InvalidInput,
	MalformedIdentifier,
	InvalidVoteValue,
	Unauthenticated,
	Forbidden,
	IdentitySpoofing,
	NotFound,
	Conflict,
	RateLimited,
	DataConsistency,
}

func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case InvalidInput:
		return "invalid_input"
	case MalformedIdentifier:
		return "malformed_identifier"
	case InvalidVoteValue:
		return "invalid_vote_value"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case IdentitySpoofing:
		return "identity_spoofing"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case RateLimited:
		return "rate_limited"
	case DataConsistency:
		return "data_consistency"
	default:
		return "unknown"
	}
}

// Status returns the HTTP status for k. Undeclared kinds map to 500.
func (k Kind) Status() int {
	switch k {
	case InvalidInput, MalformedIdentifier, InvalidVoteValue:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden, IdentitySpoofing:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case RateLimited:
		return http.StatusTooManyRequests
	case DataConsistency, Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to show to clients; Err is
// the underlying cause and is never serialized.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind, so errors.Is(err, apperr.New(NotFound, ""))
// works regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the Kind of err, or Internal when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// StatusOf reports the HTTP status for err.
func StatusOf(err error) int {
	return KindOf(err).Status()
}

// PublicMessage returns the client-facing message for err. Unclassified
// errors get a generic message.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Internal server error"
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
