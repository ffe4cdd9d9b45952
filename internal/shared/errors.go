package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// SafeError marks an error whose message may be shown to visitors.
type SafeError interface {
	error
	Safe() bool
}

// UserSafeMessage returns a message fit for display. Errors are shown verbatim only
// when they are known validation or lookup failures.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var safe SafeError
	if errors.As(err, &safe) && safe.Safe() {
		return safe.Error()
	}
	if errors.Is(err, ErrNotFound) {
		return "The requested record was not found"
	}
	return "Something went wrong, please try again"
}

// Invalid wraps a validation message as a SafeError.
func Invalid(msg string) error {
	return validationError(msg)
}

type validationError string

func (e validationError) Error() string { return string(e) }
func (e validationError) Safe() bool    { return true }
