package apperr

import "errors"

// Kind classifies a failure so the HTTP boundary can pick a status code
// without inspecting message text.
type Kind int

const (
	Unknown Kind = iota
	NotFound
	Forbidden
	BadRequest
	Conflict
	Unauthorized
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf unwraps err down to an *Error and reports its Kind.
// Anything else is Unknown, typically an infrastructure failure.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}
