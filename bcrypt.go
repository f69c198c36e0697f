package ewaste

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash with a per-call random salt
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password against
// the stored hash. A malformed stored hash fails closed: it reports a
// mismatch instead of surfacing a parse error to the caller.
func ComparePasswordAndHash(password, hash string) error {
	// wrong password, truncated hash, and not-a-bcrypt-hash all read as a
	// mismatch so a corrupted record cannot crash the login path
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// RandomPasswordHash hashes a throwaway value. The login path compares
// against it when a username does not exist so both failure paths pay the
// same bcrypt cost.
func RandomPasswordHash() string {
	pwd := uuid.New()

	h, err := HashPassword(pwd.String())
	if err != nil {
		return RandomPasswordHash()
	}

	return h
}
