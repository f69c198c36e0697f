package ewaste

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserProvider resolves identities against a UserStore
type UserProvider struct {
	store  UserStore
	logger Logger
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. An unknown username and a wrong password return the same error;
// which one occurred is only visible in internal logs. The unknown-username
// path still burns a bcrypt comparison so the two failures cost the same.
func (u *UserProvider) VerifyIdentity(ctx context.Context, username, password string) (Identity, error) {
	user, err := u.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			u.logger.Debug("login attempt for unknown username", "username", username)
			ComparePasswordAndHash(password, RandomPasswordHash())
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read credential store during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		u.logger.Debug("login attempt with wrong password", "username", username)
		return nil, ErrMismatchedHashAndPassword
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByUsername returns the identity for a stored username.
func (u *UserProvider) FindIdentityByUsername(ctx context.Context, username string) (Identity, error) {
	user, err := u.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return NewIdentityFromUser(user), nil
}
