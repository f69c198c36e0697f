package ewaste

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// BunStore keeps user records in an embedded SQLite database through bun.
// It honors the same contract as FileStore, so swapping backends never
// touches the authentication flow. Uniqueness is enforced inside a
// transaction: the check and the insert commit together or not at all.
type BunStore struct {
	db     *bun.DB
	logger Logger
}

var _ UserStore = (*BunStore)(nil)

// BunStoreOption configures a BunStore.
type BunStoreOption func(*BunStore)

// WithBunStoreLogger overrides the store logger.
func WithBunStoreLogger(logger Logger) BunStoreOption {
	return func(s *BunStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBunStore wraps an existing bun DB handle.
func NewBunStore(db *bun.DB, opts ...BunStoreOption) *BunStore {
	s := &BunStore{
		db:     db,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// OpenSQLite opens (and migrates) an SQLite-backed user store at path. Use
// "file::memory:?cache=shared" for an in-memory database.
func OpenSQLite(ctx context.Context, path string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, WrapStorageError(err, "failed to open sqlite user store")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		db.Close()
		return nil, WrapStorageError(err, "failed to migrate sqlite user store")
	}

	return db, nil
}

// LoadAll returns every record in insertion order.
func (s *BunStore) LoadAll(ctx context.Context) ([]*User, error) {
	records := []*User{}
	if err := s.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx); err != nil {
		return nil, WrapStorageError(err, "failed to read user records")
	}
	return records, nil
}

// SaveAll replaces the whole record set, preserving the document-rewrite
// semantics of the flat-file layout.
func (s *BunStore) SaveAll(ctx context.Context, records []*User) error {
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*User)(nil)).
			Where("TRUE").
			Exec(ctx); err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for _, record := range records {
			record.EnsureID()
		}
		_, err := tx.NewInsert().Model(&records).Exec(ctx)
		return err
	})
	if err != nil {
		return WrapStorageError(err, "failed to replace user records")
	}
	return nil
}

// FindByUsername returns the record matching the exact username.
func (s *BunStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	record := new(User)
	err := s.db.NewSelect().
		Model(record).
		Where("username = ?", username).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, WrapStorageError(err, "failed to read user record")
	}
	return record, nil
}

// Register inserts the record if its username is free. The uniqueness check
// and the insert run in one transaction, backed by the unique index on
// username, so concurrent registers of the same username cannot both land.
func (s *BunStore) Register(ctx context.Context, record *User) (*User, error) {
	record.EnsureID()

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*User)(nil)).
			Where("username = ?", record.Username).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrUsernameTaken
		}

		_, err = tx.NewInsert().Model(record).Exec(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, WrapStorageError(err, "failed to insert user record")
	}

	s.logger.Info("registered user", "username", record.Username)
	return record, nil
}

// Count reports how many records the store holds.
func (s *BunStore) Count(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*User)(nil)).Count(ctx)
	if err != nil {
		return 0, WrapStorageError(err, "failed to count user records")
	}
	return n, nil
}
