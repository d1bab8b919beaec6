package journal_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/eventflow/pkg/eventflow/journal"
)

func TestSQLiteStore(t *testing.T) {
	store, err := journal.NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	storeTest(t, store)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	store, err := journal.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, journal.Entry{
		ContextID: "ctx-1",
		Kind:      journal.KindCompleted,
	}))
	require.NoError(t, store.Close())

	reopened, err := journal.NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.List(ctx, "ctx-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, journal.KindCompleted, entries[0].Kind)
}

func TestSQLiteStore_CloseIsIdempotent(t *testing.T) {
	store, err := journal.NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
