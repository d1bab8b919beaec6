package journal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventflow/pkg/eventflow/journal"
)

// storeTest exercises the Store contract against any implementation.
func storeTest(t *testing.T, store journal.Store) {
	t.Helper()
	ctx := context.Background()

	// Empty context lists empty.
	entries, err := store.List(ctx, "ctx-unknown")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Appends are sequenced per context.
	require.NoError(t, store.Append(ctx, journal.Entry{
		ContextID: "ctx-1",
		Kind:      journal.KindCreated,
	}))
	require.NoError(t, store.Append(ctx, journal.Entry{
		ContextID: "ctx-1",
		EventID:   "evt-1",
		Kind:      journal.KindResponseSettled,
		Detail:    "value",
	}))
	require.NoError(t, store.Append(ctx, journal.Entry{
		ContextID: "ctx-2",
		Kind:      journal.KindCreated,
	}))

	entries, err = store.List(ctx, "ctx-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, journal.KindCreated, entries[0].Kind)
	assert.Equal(t, 1, entries[0].Sequence)
	assert.Equal(t, journal.KindResponseSettled, entries[1].Kind)
	assert.Equal(t, 2, entries[1].Sequence)
	assert.Equal(t, "evt-1", entries[1].EventID)
	assert.Equal(t, "value", entries[1].Detail)
	assert.False(t, entries[0].Timestamp.IsZero())

	// Contexts are isolated.
	entries, err = store.List(ctx, "ctx-2")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// DeleteContext removes only the given context.
	require.NoError(t, store.DeleteContext(ctx, "ctx-1"))
	entries, err = store.List(ctx, "ctx-1")
	require.NoError(t, err)
	assert.Empty(t, entries)
	entries, err = store.List(ctx, "ctx-2")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Closed stores refuse operations.
	require.NoError(t, store.Close())
	err = store.Append(ctx, journal.Entry{ContextID: "ctx-3", Kind: journal.KindCreated})
	assert.ErrorIs(t, err, journal.ErrStoreClosed)
	_, err = store.List(ctx, "ctx-2")
	assert.ErrorIs(t, err, journal.ErrStoreClosed)
}

func TestMemoryStore(t *testing.T) {
	storeTest(t, journal.NewMemoryStore())
}

func TestMemoryStore_Len(t *testing.T) {
	store := journal.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, journal.Entry{ContextID: "a", Kind: journal.KindCreated}))
	require.NoError(t, store.Append(ctx, journal.Entry{ContextID: "b", Kind: journal.KindCreated}))
	assert.Equal(t, 2, store.Len())
}
