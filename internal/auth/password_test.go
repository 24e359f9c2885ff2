package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	ok, err := h.Compare(ctx, hash, "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare(ctx, hash, "hunter3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasherMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)

	_, err := h.Compare(context.Background(), "not-a-bcrypt-hash", "whatever")
	assert.Error(t, err)
}

func TestHasherCancelledContext(t *testing.T) {
	h := NewHasher(bcrypt.MinCost, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "hunter2")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHasherClampInvalidSettings(t *testing.T) {
	h := NewHasher(1000, 0)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)

	hash, err := h.Hash(context.Background(), "pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
