package services

import "errors"

// Failure kinds the handlers map onto HTTP statuses. Services return these
// sentinels directly or wrapped in an Error carrying the user-facing message;
// expected conditions never surface as raw store errors.
var (
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBadCurrentPassword = errors.New("current password is incorrect")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyMember      = errors.New("user is already a member of this team")
)

// Error pairs a failure kind with the message handed to the client, so
// errors.Is still matches the sentinel while the envelope message stays
// readable.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.kind }

func E(kind error, message string) error {
	return &Error{kind: kind, message: message}
}
