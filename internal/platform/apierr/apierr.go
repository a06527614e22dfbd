package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the client-facing text: the aggregate message when there is
// one, never the wrapped store error.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	var aggErr *domainagg.Error
	if errors.As(e.Err, &aggErr) && aggErr.Message != "" {
		return aggErr.Message
	}
	if e.Status >= http.StatusInternalServerError {
		return http.StatusText(e.Status)
	}
	return e.Error()
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps a service error onto its HTTP status. Errors without a code
// are internal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	code := domainagg.CodeOf(err)
	switch code {
	case domainagg.CodeValidation:
		return New(http.StatusBadRequest, string(code), err)
	case domainagg.CodeNotFound:
		return New(http.StatusNotFound, string(code), err)
	case domainagg.CodeConflict:
		return New(http.StatusConflict, conflictCode(err), err)
	case domainagg.CodeForbidden:
		return New(http.StatusForbidden, string(code), err)
	case domainagg.CodePreconditionFailed:
		return New(http.StatusPreconditionFailed, string(code), err)
	case domainagg.CodeRetryable:
		return New(http.StatusServiceUnavailable, string(code), err)
	default:
		return New(http.StatusInternalServerError, string(domainagg.CodeInternal), err)
	}
}

func conflictCode(err error) string {
	switch {
	case errors.Is(err, domainagg.ErrDuplicateVote):
		return "duplicate_vote"
	case errors.Is(err, domainagg.ErrAlreadyAttached):
		return "already_attached"
	default:
		return string(domainagg.CodeConflict)
	}
}
