package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"romcat/internal/errors"
	"romcat/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	tick := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	db, err := store.Open(filepath.Join(t.TempDir(), "nested", "history.db"), store.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecentSelections(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RecordSelection(ctx, store.Selection{Path: "/games/NES/a.nes", Label: "a", Core: "_NES", Station: "NES"}))
	require.NoError(t, db.RecordSelection(ctx, store.Selection{Path: "/games/NES/b.nes", Label: "b", Core: "_NES", Station: "NES"}))
	require.NoError(t, db.RecordSelection(ctx, store.Selection{Path: "/games/NES/a.nes", Label: "a", Core: "_NES", Station: "NES"}))

	recent, err := db.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "/games/NES/a.nes", recent[0].Path)
	assert.Equal(t, 2, recent[0].Count)
	assert.Equal(t, "_NES", recent[0].Core)
	assert.Equal(t, "/games/NES/b.nes", recent[1].Path)
	assert.Equal(t, 1, recent[1].Count)
	assert.True(t, recent[0].SelectedAt.After(recent[1].SelectedAt))

	limited, err := db.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordSelectionRequiresPath(t *testing.T) {
	db := openTestDB(t)
	err := db.RecordSelection(context.Background(), store.Selection{Label: "x"})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestFetchLedger(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	records := []store.FetchRecord{
		{Name: "Zelda II", Station: "NES", Category: "Named_Boxarts", Status: "ready"},
		{Name: "Metroid", Station: "NES", Category: "Named_Snaps", Status: "ready"},
		{Name: "Obscure", Station: "NES", Status: "not_found"},
		{Name: "Super Metroid", Station: "SNES", Category: "Named_Boxarts", Status: "ready"},
	}
	for _, rec := range records {
		require.NoError(t, db.RecordFetch(ctx, rec))
	}

	all, err := db.FetchStats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ready": 3, "not_found": 1}, all)

	nes, err := db.FetchStats(ctx, "NES")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ready": 2, "not_found": 1}, nes)

	require.NoError(t, db.ClearFetches(ctx, "NES"))
	all, err = db.FetchStats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ready": 1}, all)

	require.NoError(t, db.ClearFetches(ctx, ""))
	all, err = db.FetchStats(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, db.RecordSelection(context.Background(), store.Selection{Path: "/x.nes", Label: "x"}))
	require.NoError(t, db.Close())

	db, err = store.Open(path)
	require.NoError(t, err)
	defer db.Close()
	recent, err := db.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "x", recent[0].Label)
}
