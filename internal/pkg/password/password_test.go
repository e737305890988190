package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SellerPanelPlatform/internal/pkg/password"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := password.NewBcryptHasher(4, 6)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, hasher.Check("secret1", hash))
	assert.False(t, hasher.Check("wrong", hash))
}

func TestBcryptHasher_UniqueSalt(t *testing.T) {
	hasher := password.NewBcryptHasher(4, 6)

	first, err := hasher.Hash("secret1")
	require.NoError(t, err)
	second, err := hasher.Hash("secret1")
	require.NoError(t, err)

	// bcrypt генерирует новую соль на каждый вызов
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("secret1", first))
	assert.True(t, hasher.Check("secret1", second))
}

func TestBcryptHasher_Validate(t *testing.T) {
	hasher := password.NewBcryptHasher(4, 6)

	assert.False(t, hasher.Validate(""))
	assert.False(t, hasher.Validate("12345"))
	assert.True(t, hasher.Validate("123456"))
	assert.True(t, hasher.Validate("a-much-longer-password"))
}
