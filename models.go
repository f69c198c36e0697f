package ewaste

import (
	"time"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultSeedUsername is the bootstrap account created on first run when the
// store is empty, mirroring the original deployment.
const DefaultSeedUsername = "testuser"

// DefaultSeedPassword is the bootstrap account password.
const DefaultSeedPassword = "password123"

// User is the stored credential record. The JSON shape is the on-disk users
// document contract: only username and passwordHash are persisted there, in
// insertion order. Usernames are unique and case-sensitive, and immutable
// once created; there are no update or delete operations.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"-"`
	Username     string     `bun:"username,notnull,unique" json:"username"`
	PasswordHash string     `bun:"password_hash,notnull" json:"passwordHash"`
	CreatedAt    *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"-"`
}

// NewUser builds a record with a deterministic ID derived from the username,
// so reloading the same document always yields the same identities.
func NewUser(username, passwordHash string) *User {
	u := &User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	u.EnsureID()
	return u
}

// EnsureID backfills the ID for records loaded from a document that only
// carries username and passwordHash.
func (u *User) EnsureID() {
	if u.ID != uuid.Nil {
		return
	}
	if id, err := hashid.NewUUID(u.Username); err == nil {
		u.ID = id
		return
	}
	u.ID = uuid.New()
}
