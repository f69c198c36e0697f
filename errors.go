package ewaste

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
)

// Machine readable codes for boundary errors.
const (
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeUsernameTaken      = "USERNAME_TAKEN"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeStorageFailure     = "STORAGE_FAILURE"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword covers both the unknown-username and the
// wrong-password paths. Callers must not be able to tell which half of the
// credential pair failed; the distinction lives in internal logs only.
var ErrMismatchedHashAndPassword = errors.New("invalid username or password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCredentials)

// ErrNoEmptyString rejects empty inputs before they reach bcrypt
var ErrNoEmptyString = errors.New("value cannot be an empty string", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrUsernameTaken is the conflict returned by UserStore.Register
var ErrUsernameTaken = errors.New("username already exists", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeUsernameTaken)

// ErrTokenExpired marks tokens whose exp claim is in the past
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers garbage tokens and signature mismatches alike
var ErrTokenMalformed = errors.New("authentication token malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims from token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// WrapStorageError marks a failure of the durable user document. Missing
// documents are not storage errors; corrupt or unreadable ones are, and they
// must never be collapsed into an empty record list.
func WrapStorageError(err error, msg string) *errors.Error {
	return errors.Wrap(err, errors.CategoryInternal, msg).
		WithCode(errors.CodeInternal).
		WithTextCode(TextCodeStorageFailure)
}

// IsStorageError will check for storage failures anywhere in the chain
func IsStorageError(err error) bool {
	for err != nil {
		if rich, ok := err.(*errors.Error); ok && rich.TextCode == TextCodeStorageFailure {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
