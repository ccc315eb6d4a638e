package service

import "errors"

// Kind classifies an error for transport mapping
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a user-safe error carrying a Kind. Its message may be shown to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrInvalidRating            = newError(KindInvalidInput, "rating must be an integer between 1 and 5")
	ErrCommentTooLong           = newError(KindInvalidInput, "comment must not exceed 500 characters")
	ErrInvalidID                = newError(KindInvalidInput, "invalid id")
	ErrUserAlreadyExists        = newError(KindInvalidInput, "user already exists with this email")
	ErrStoreAlreadyExists       = newError(KindInvalidInput, "store already exists with this email")
	ErrCurrentPasswordIncorrect = newError(KindInvalidInput, "current password is incorrect")

	ErrInvalidCredentials = newError(KindUnauthenticated, "invalid credentials")

	ErrCannotDeactivateAdmin = newError(KindForbidden, "cannot delete other admin users")

	ErrUserNotFound    = newError(KindNotFound, "user not found")
	ErrStoreNotFound   = newError(KindNotFound, "store not found")
	ErrOwnerHasNoStore = newError(KindNotFound, "store not found for this owner")

	ErrConflict = newError(KindConflict, "the resource was modified concurrently, please retry")
)
