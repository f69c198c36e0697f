package ewaste

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goliatone/go-errors"
)

// FileStore keeps the user document as a single JSON array on disk, in
// insertion order. Every mutation rewrites the whole document; there is no
// partial-append format. A RWMutex serializes register's
// load-check-append-save sequence against other writers, and writers publish
// through a temp file plus rename so readers never observe a half-written
// document.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	logger Logger
}

var _ UserStore = (*FileStore)(nil)

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFileStoreLogger overrides the store logger.
func WithFileStoreLogger(logger Logger) FileStoreOption {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileStore returns a store backed by the JSON document at path. The
// document is not created until the first write.
func NewFileStore(path string, opts ...FileStoreOption) *FileStore {
	s := &FileStore{
		path:   path,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// LoadAll reads the durable document. Reads may run concurrently with each
// other; they only block while a writer holds the exclusive lock.
func (s *FileStore) LoadAll(ctx context.Context) ([]*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "context cancelled reading user document")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readLocked()
}

// SaveAll replaces the durable document with the given record sequence.
func (s *FileStore) SaveAll(ctx context.Context, records []*User) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "context cancelled writing user document")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(records)
}

// FindByUsername returns the record matching the exact username.
func (s *FileStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if record := findByUsername(records, username); record != nil {
		return record, nil
	}
	return nil, ErrIdentityNotFound
}

// Register appends the record if its username is free. The exclusive lock
// spans load, uniqueness check, append, and save, so concurrent registers of
// the same username cannot both pass the check.
func (s *FileStore) Register(ctx context.Context, record *User) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "context cancelled during registration")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readLocked()
	if err != nil {
		return nil, err
	}

	if existing := findByUsername(records, record.Username); existing != nil {
		return nil, ErrUsernameTaken
	}

	record.EnsureID()
	records = append(records, record)

	if err := s.writeLocked(records); err != nil {
		return nil, err
	}

	s.logger.Info("registered user", "username", record.Username)
	return record, nil
}

// Count reports how many records the document holds.
func (s *FileStore) Count(ctx context.Context) (int, error) {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *FileStore) readLocked() ([]*User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		// absent document means empty store; anything else is a storage
		// failure and must not be collapsed into an empty record list
		if errors.Is(err, fs.ErrNotExist) {
			return []*User{}, nil
		}
		return nil, WrapStorageError(err, "failed to read user document")
	}

	var records []*User
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Error("user document is corrupt", "path", s.path, "error", err)
		return nil, WrapStorageError(err, "user document is corrupt")
	}

	for _, record := range records {
		record.EnsureID()
	}
	return records, nil
}

func (s *FileStore) writeLocked(records []*User) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return WrapStorageError(err, "failed to serialize user document")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return WrapStorageError(err, "failed to stage user document")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return WrapStorageError(err, "failed to stage user document")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return WrapStorageError(err, "failed to stage user document")
	}

	// rename publishes the new document atomically: concurrent readers see
	// either the previous or the new version, never a partial write
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return WrapStorageError(err, "failed to replace user document")
	}
	return nil
}
