package ewaste_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoloop/ewaste"
)

func newTestFileStore(t *testing.T) (*ewaste.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return ewaste.NewFileStore(path), path
}

func TestFileStoreLoadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("missing document is an empty store", func(t *testing.T) {
		store, path := newTestFileStore(t)

		records, err := store.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)

		// loading must not create the document
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("corrupt document is a storage error, not an empty store", func(t *testing.T) {
		store, path := newTestFileStore(t)
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		records, err := store.LoadAll(ctx)
		assert.Nil(t, records)
		assert.True(t, ewaste.IsStorageError(err))
	})

	t.Run("reads records in insertion order", func(t *testing.T) {
		store, _ := newTestFileStore(t)

		for _, username := range []string{"alpha", "beta", "gamma"} {
			_, err := store.Register(ctx, ewaste.NewUser(username, "hash-"+username))
			require.NoError(t, err)
		}

		records, err := store.LoadAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "alpha", records[0].Username)
		assert.Equal(t, "beta", records[1].Username)
		assert.Equal(t, "gamma", records[2].Username)
	})
}

func TestFileStoreRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a new record", func(t *testing.T) {
		store, path := newTestFileStore(t)

		record, err := store.Register(ctx, ewaste.NewUser("testuser", "a-hash"))
		require.NoError(t, err)
		assert.Equal(t, "testuser", record.Username)

		// on-disk shape carries only username and passwordHash
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var raw []map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		require.Len(t, raw, 1)
		assert.Equal(t, "testuser", raw[0]["username"])
		assert.Equal(t, "a-hash", raw[0]["passwordHash"])
		assert.NotContains(t, raw[0], "id")
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		store, _ := newTestFileStore(t)

		_, err := store.Register(ctx, ewaste.NewUser("testuser", "a-hash"))
		require.NoError(t, err)

		_, err = store.Register(ctx, ewaste.NewUser("testuser", "another-hash"))
		assert.ErrorIs(t, err, ewaste.ErrUsernameTaken)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("usernames are case sensitive", func(t *testing.T) {
		store, _ := newTestFileStore(t)

		_, err := store.Register(ctx, ewaste.NewUser("testuser", "a-hash"))
		require.NoError(t, err)

		_, err = store.Register(ctx, ewaste.NewUser("TestUser", "another-hash"))
		require.NoError(t, err)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("exactly one concurrent register wins", func(t *testing.T) {
		store, _ := newTestFileStore(t)

		const attempts = 32
		var wg sync.WaitGroup
		results := make(chan error, attempts)

		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Register(ctx, ewaste.NewUser("contended", "a-hash"))
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var wins, conflicts int
		for err := range results {
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, ewaste.ErrUsernameTaken):
				conflicts++
			}
		}

		assert.Equal(t, 1, wins)
		assert.Equal(t, attempts-1, conflicts)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestFileStoreFindByUsername(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestFileStore(t)

	_, err := store.Register(ctx, ewaste.NewUser("testuser", "a-hash"))
	require.NoError(t, err)

	t.Run("finds a stored record", func(t *testing.T) {
		record, err := store.FindByUsername(ctx, "testuser")
		require.NoError(t, err)
		assert.Equal(t, "testuser", record.Username)
		assert.Equal(t, "a-hash", record.PasswordHash)
	})

	t.Run("unknown username", func(t *testing.T) {
		record, err := store.FindByUsername(ctx, "nobody")
		assert.Nil(t, record)
		assert.ErrorIs(t, err, ewaste.ErrIdentityNotFound)
	})
}

func TestFileStorePersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")

	first := ewaste.NewFileStore(path)
	registered, err := first.Register(ctx, ewaste.NewUser("testuser", "a-hash"))
	require.NoError(t, err)

	// a fresh store over the same document sees the same records and
	// derives the same deterministic identity
	second := ewaste.NewFileStore(path)
	reloaded, err := second.FindByUsername(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, registered.PasswordHash, reloaded.PasswordHash)
	assert.Equal(t, registered.ID, reloaded.ID)
}

func TestSeedDefaultUser(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds an empty store", func(t *testing.T) {
		store, _ := newTestFileStore(t)

		require.NoError(t, ewaste.SeedDefaultUser(ctx, store))

		record, err := store.FindByUsername(ctx, ewaste.DefaultSeedUsername)
		require.NoError(t, err)
		assert.NoError(t, ewaste.ComparePasswordAndHash(ewaste.DefaultSeedPassword, record.PasswordHash))
	})

	t.Run("does not reseed a populated store", func(t *testing.T) {
		store, _ := newTestFileStore(t)

		_, err := store.Register(ctx, ewaste.NewUser("someone", "a-hash"))
		require.NoError(t, err)

		require.NoError(t, ewaste.SeedDefaultUser(ctx, store))

		_, err = store.FindByUsername(ctx, ewaste.DefaultSeedUsername)
		assert.ErrorIs(t, err, ewaste.ErrIdentityNotFound)
	})

	t.Run("propagates storage errors", func(t *testing.T) {
		store, path := newTestFileStore(t)
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		err := ewaste.SeedDefaultUser(ctx, store)
		assert.True(t, ewaste.IsStorageError(err))
	})
}
