package storage

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repodeck/internal/domain"
)

// setupTestDB creates a BadgerDB draft store in a temporary directory.
func setupTestDB(t *testing.T) *BadgerDraftStore {
	t.Helper()

	testLogger := logrus.New()
	testLogger.SetOutput(os.Stderr)
	testLogger.SetLevel(logrus.ErrorLevel)

	store, err := NewBadgerDraftStore(t.TempDir(), testLogger)
	require.NoError(t, err, "Failed to create test BadgerDB store")

	t.Cleanup(func() {
		assert.NoError(t, store.Close(), "Failed to close test BadgerDB store")
	})
	return store
}

func TestBadgerDraftStore_SaveAndGet(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	draft1 := domain.Draft{Title: "repodeck", URL: "https://example.com/repodeck", Techs: "Go,Badger"}
	draft2 := domain.Draft{Title: "other"}

	require.NoError(t, store.SaveDraft(ctx, 1, draft1))
	require.NoError(t, store.SaveDraft(ctx, 2, draft2))

	got, ok, err := store.GetDraft(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, draft1, got)

	got, ok, err = store.GetDraft(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, draft2, got)

	// --- Missing chat ---
	got, ok, err = store.GetDraft(ctx, 999)
	require.NoError(t, err, "A missing draft should not error")
	assert.False(t, ok)
	assert.Equal(t, domain.Draft{}, got)

	// --- Overwrite ---
	updated := domain.Draft{Title: "renamed", Techs: "Go"}
	require.NoError(t, store.SaveDraft(ctx, 1, updated))
	got, _, err = store.GetDraft(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestBadgerDraftStore_Delete(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDraft(ctx, 7, domain.Draft{Title: "delete me"}))
	require.NoError(t, store.SaveDraft(ctx, 8, domain.Draft{Title: "keep me"}))

	require.NoError(t, store.DeleteDraft(ctx, 7))

	_, ok, err := store.GetDraft(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok, "Deleted draft should be gone")

	got, ok, err := store.GetDraft(ctx, 8)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "keep me", got.Title)

	// --- Deleting again is not an error ---
	assert.NoError(t, store.DeleteDraft(ctx, 7))
	assert.NoError(t, store.DeleteDraft(ctx, 12345))
}

func TestBadgerDraftStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	ctx := context.Background()

	store, err := NewBadgerDraftStore(dir, logger)
	require.NoError(t, err)
	require.NoError(t, store.SaveDraft(ctx, 3, domain.Draft{URL: "https://example.com"}))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerDraftStore(dir, logger)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.GetDraft(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", got.URL)
}
