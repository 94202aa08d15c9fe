// Package apperr holds the error kinds services return to controllers.
// Controllers map each kind to an HTTP status; services wrap them with
// context via fmt.Errorf("...: %w", ...).
package apperr

import "errors"

var (
	// ErrNotFound covers both genuinely absent resources and resources the
	// caller is not allowed to know exist (ownership-filtered loads).
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when the resource was already confirmed to
	// exist by an id-only lookup but belongs to another user.
	ErrForbidden = errors.New("not authorized")

	// ErrConflict covers duplicate state such as an already registered email.
	ErrConflict = errors.New("conflict")

	// ErrUnauthenticated means the request carried no valid credential.
	ErrUnauthenticated = errors.New("could not validate credentials")

	// ErrCodeSpaceExhausted means share-code generation kept colliding for the
	// whole attempt budget. Operational capacity signal, not a caller mistake.
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique share code")
)
