package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	hasher := BcryptHasher{}

	t.Run("hash and compare", func(t *testing.T) {
		hash, err := hasher.Hash("password123")

		require.NoError(t, err)
		require.NotEqual(t, "password123", hash)
		require.NoError(t, hasher.Compare(hash, "password123"))
		require.Error(t, hasher.Compare(hash, "wrongpassword"))
	})

	t.Run("long passwords are fine", func(t *testing.T) {
		// Raw bcrypt rejects inputs over 72 bytes, the sha256 pre-hash doesn't
		long := strings.Repeat("x", 100)

		hash, err := hasher.Hash(long)

		require.NoError(t, err)
		require.NoError(t, hasher.Compare(hash, long))
		require.Error(t, hasher.Compare(hash, long+"y"))
	})
}
