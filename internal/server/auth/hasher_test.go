package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasher_CostRange(t *testing.T) {
	t.Parallel()

	for _, cost := range []int{3, 32, -1} {
		_, err := NewBcryptHasher(cost)
		assert.Error(t, err, "cost %d", cost)
	}

	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	const pw = "Sup3rSecret"

	h1, err := h.Hash(pw)
	require.NoError(t, err)
	h2, err := h.Hash(pw)
	require.NoError(t, err)

	assert.NotEqual(t, pw, h1, "hash must not equal plaintext")
	assert.NotEqual(t, h1, h2, "each hash gets a fresh salt")
	assert.True(t, h.Verify(pw, h1))
	assert.True(t, h.Verify(pw, h2))
	assert.False(t, h.Verify("sup3rsecret", h1))

	cost, err := bcrypt.Cost([]byte(h1))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	for _, bad := range []string{"", "not-a-hash", "$2a$10$short"} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("whatever", bad))
		})
	}
}

func TestBcryptHasher_HashTooLong(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("a", 100))
	require.Error(t, err)
}

func TestBcryptHasher_Burn(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotPanics(t, func() { h.Burn("anything") })
}
