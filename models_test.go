package ewaste_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoloop/ewaste"
)

func TestNewUser(t *testing.T) {
	t.Run("derives a deterministic id from the username", func(t *testing.T) {
		first := ewaste.NewUser("testuser", "a-hash")
		second := ewaste.NewUser("testuser", "another-hash")

		assert.Equal(t, first.ID, second.ID)
		assert.NotEqual(t, first.ID, ewaste.NewUser("otheruser", "a-hash").ID)
	})

	t.Run("document shape carries only the credential pair", func(t *testing.T) {
		data, err := json.Marshal(ewaste.NewUser("testuser", "a-hash"))
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, map[string]any{
			"username":     "testuser",
			"passwordHash": "a-hash",
		}, raw)
	})
}

func TestEnsureID(t *testing.T) {
	user := &ewaste.User{Username: "testuser", PasswordHash: "a-hash"}
	user.EnsureID()
	require.NotEmpty(t, user.ID)

	// stable across repeated calls
	id := user.ID
	user.EnsureID()
	assert.Equal(t, id, user.ID)
}

func TestIdentityFromUser(t *testing.T) {
	user := ewaste.NewUser("testuser", "a-hash")

	identity := ewaste.NewIdentityFromUser(user)
	assert.Equal(t, user.ID.String(), identity.ID())
	assert.Equal(t, "testuser", identity.Username())
}
