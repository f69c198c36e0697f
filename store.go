package ewaste

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserStore is the durable mapping from username to stored credential
// record. Implementations must guarantee that Register performs its
// check-then-insert as one atomic unit with respect to concurrent Register
// calls: two concurrent registrations of the same username must never both
// succeed.
type UserStore interface {
	// LoadAll reads the durable document. A missing document yields an
	// empty slice; a corrupt or unreadable one yields a storage error.
	// Loading never creates the document.
	LoadAll(ctx context.Context) ([]*User, error)

	// SaveAll serializes the full record sequence and replaces the durable
	// document in one scoped operation.
	SaveAll(ctx context.Context, records []*User) error

	// FindByUsername returns the record for the exact (case-sensitive)
	// username, or ErrIdentityNotFound.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Register appends a new record, failing with ErrUsernameTaken when the
	// username is already present.
	Register(ctx context.Context, record *User) (*User, error)

	// Count reports how many records the store holds.
	Count(ctx context.Context) (int, error)
}

// SeedDefaultUser inserts the bootstrap testuser record when the store is
// empty. It runs once at service startup, before the listener opens.
func SeedDefaultUser(ctx context.Context, store UserStore) error {
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := HashPassword(DefaultSeedPassword)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash seed password")
	}

	if _, err := store.Register(ctx, NewUser(DefaultSeedUsername, hash)); err != nil {
		// another instance seeded between Count and Register
		if errors.Is(err, ErrUsernameTaken) {
			return nil
		}
		return err
	}
	return nil
}

func findByUsername(records []*User, username string) *User {
	for _, record := range records {
		if record.Username == username {
			return record
		}
	}
	return nil
}
