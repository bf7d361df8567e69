package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadConflictWithoutOverwrite(t *testing.T) {
	store := NewMemoryStore("http://localhost/storage/v1/object/public", "badges")
	ctx := context.Background()

	url, err := store.Upload(ctx, "badge-metadata/1_0xa.json", []byte(`{"v":1}`), "application/json", false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/storage/v1/object/public/badges/badge-metadata/1_0xa.json", url)

	_, err = store.Upload(ctx, "badge-metadata/1_0xa.json", []byte(`{"v":2}`), "application/json", false)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUploadOverwriteLastWriteWinsStableURL(t *testing.T) {
	store := NewMemoryStore("http://localhost/storage/v1/object/public", "badges")
	ctx := context.Background()

	first, err := store.Upload(ctx, "badge-metadata/1_0xa.json", []byte(`{"v":1}`), "application/json", true)
	require.NoError(t, err)
	second, err := store.Upload(ctx, "badge-metadata/1_0xa.json", []byte(`{"v":2}`), "application/json", true)
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeated uploads of the same key keep the same public URL")

	data, ok := store.(*memoryStore).Get("badge-metadata/1_0xa.json")
	require.True(t, ok)
	assert.JSONEq(t, `{"v":2}`, string(data))
}

func TestUploadRejectsInvalidInput(t *testing.T) {
	store := NewMemoryStore("http://localhost/storage/v1/object/public", "badges")
	ctx := context.Background()

	_, err := store.Upload(ctx, "", []byte("x"), "application/json", true)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = store.Upload(ctx, "k", nil, "application/json", true)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = store.Upload(ctx, "k", make([]byte, maxObjectSize+1), "application/json", true)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPublicURLIsPureDerivation(t *testing.T) {
	store := NewMemoryStore("https://proj.supabase.co/storage/v1/object/public", "badges")

	// No upload happened; URL shape is derivable from the key alone.
	assert.Equal(t,
		"https://proj.supabase.co/storage/v1/object/public/badges/badge-metadata/7_0xb.json",
		store.PublicURL("badge-metadata/7_0xb.json"))
}
