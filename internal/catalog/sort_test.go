package catalog_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"romcat/internal/catalog"
	"romcat/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMixed(t *testing.T) (*catalog.Service, int, int) {
	t.Helper()
	svc, cfg := newTestService(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	files := []struct {
		rel   string
		size  int
		mtime time.Time
	}{
		{"NES/delta.nes", 400, base.Add(3 * time.Hour)},
		{"NES/Alpha.nes", 100, base.Add(1 * time.Hour)},
		{"NES/charlie.nes", 300, base.Add(4 * time.Hour)},
		{"NES/Bravo.nes", 200, base.Add(2 * time.Hour)},
		{"SNES/echo.sfc", 50, base},
		{"SNES/Alpha.sfc", 500, base.Add(5 * time.Hour)},
	}
	for _, f := range files {
		path := testutils.CreateSizedFile(t, filepath.Join(cfg.Paths.GamesRoot, f.rel), f.size)
		testutils.SetModTime(t, path, f.mtime)
	}

	nes := addNES(t, svc)
	snes, err := svc.AddStation("Super Nintendo", "SNES", "SNES", "SNES", "sfc")
	require.NoError(t, err)
	_, err = svc.ScanAll(context.Background())
	require.NoError(t, err)
	return svc, nes, snes
}

func TestSortByName(t *testing.T) {
	svc, _, _ := seedMixed(t)

	svc.Sort(catalog.NameAsc)
	entries := svc.ViewEntries()
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, strings.ToLower(entries[i-1].Name), strings.ToLower(entries[i].Name))
	}
	assert.Equal(t, []string{"Alpha", "Alpha", "Bravo", "charlie", "delta", "echo"}, viewNames(svc))

	svc.Sort(catalog.NameDesc)
	assert.Equal(t, []string{"echo", "delta", "charlie", "Bravo", "Alpha", "Alpha"}, viewNames(svc))
}

func TestSortByStation(t *testing.T) {
	svc, nes, snes := seedMixed(t)

	svc.Sort(catalog.StationAsc)
	entries := svc.ViewEntries()
	require.Len(t, entries, 6)
	assert.Equal(t, nes, entries[0].StationID)
	assert.Equal(t, []string{"Alpha", "Bravo", "charlie", "delta", "Alpha", "echo"}, viewNames(svc))
	assert.Equal(t, snes, entries[5].StationID)

	svc.Sort(catalog.StationDesc)
	assert.Equal(t, []string{"echo", "Alpha", "delta", "charlie", "Bravo", "Alpha"}, viewNames(svc))
}

func TestSortByDateAndSize(t *testing.T) {
	svc, _, _ := seedMixed(t)

	svc.Sort(catalog.DateAsc)
	assert.Equal(t, []string{"echo", "Alpha", "Bravo", "delta", "charlie", "Alpha"}, viewNames(svc))

	svc.Sort(catalog.DateDesc)
	assert.Equal(t, []string{"Alpha", "charlie", "delta", "Bravo", "Alpha", "echo"}, viewNames(svc))

	svc.Sort(catalog.SizeAsc)
	var sizes []int64
	for _, e := range svc.ViewEntries() {
		sizes = append(sizes, e.Size)
	}
	assert.Equal(t, []int64{50, 100, 200, 300, 400, 500}, sizes)

	svc.Sort(catalog.SizeDesc)
	assert.Equal(t, int64(500), svc.ViewEntries()[0].Size)
}

func TestSortIsIdempotent(t *testing.T) {
	svc, _, _ := seedMixed(t)

	for _, mode := range catalog.SortModes() {
		svc.Sort(mode)
		once := viewNames(svc)
		svc.Sort(mode)
		assert.Equal(t, once, viewNames(svc), mode.String())
	}
}

func TestSortSurvivesRebuild(t *testing.T) {
	svc, _, _ := seedMixed(t)

	svc.Sort(catalog.SizeDesc)
	assert.Equal(t, catalog.SizeDesc, svc.CurrentSort())

	svc.SetSearch("a")
	var sizes []int64
	for _, e := range svc.ViewEntries() {
		sizes = append(sizes, e.Size)
	}
	assert.Equal(t, []int64{500, 400, 300, 200, 100}, sizes)

	svc.Browse(catalog.AllStations)
	assert.Equal(t, int64(500), svc.ViewEntries()[0].Size)
}

func TestSortResetsCursor(t *testing.T) {
	svc, _, _ := seedMixed(t)
	svc.Navigate(catalog.Last)
	svc.Sort(catalog.DateAsc)
	first, selected := svc.Cursor()
	assert.Equal(t, 0, first)
	assert.Equal(t, 0, selected)
}

func TestParseSortMode(t *testing.T) {
	for _, mode := range catalog.SortModes() {
		parsed, err := catalog.ParseSortMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	mode, err := catalog.ParseSortMode(" Size-Desc ")
	require.NoError(t, err)
	assert.Equal(t, catalog.SizeDesc, mode)

	_, err = catalog.ParseSortMode("random")
	assert.Error(t, err)
	assert.Equal(t, "SortMode(42)", catalog.SortMode(42).String())
}
