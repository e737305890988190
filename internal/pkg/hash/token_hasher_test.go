package hash_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"SellerPanelPlatform/internal/pkg/hash"
)

func TestTokenHasher_Deterministic(t *testing.T) {
	hasher := hash.NewTokenHasher()

	first := hasher.Hash("some-token")
	second := hasher.Hash("some-token")
	other := hasher.Hash("another-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.NotContains(t, first, "some-token")
	assert.False(t, strings.ContainsAny(first, "+/="))
}
