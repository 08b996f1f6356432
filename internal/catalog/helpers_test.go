package catalog_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"romcat/internal/catalog"
	"romcat/internal/config"
	"romcat/pkg/testutils"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*catalog.Service, *config.Config) {
	t.Helper()
	cfg := config.NewTestConfig(t.TempDir())
	cfg.Browse.PageSize = 4
	svc, err := catalog.New(cfg)
	require.NoError(t, err)
	return svc, cfg
}

func addNES(t *testing.T, svc *catalog.Service) int {
	t.Helper()
	id, err := svc.AddStation("NES", "NES", "NES", "NES", "nes")
	require.NoError(t, err)
	return id
}

// seedGames creates n NES files named Game_00.nes.. under the games root,
// scans them and returns the station id.
func seedGames(t *testing.T, svc *catalog.Service, cfg *config.Config, n int) int {
	t.Helper()
	for i := 0; i < n; i++ {
		testutils.CreateSizedFile(t, filepath.Join(cfg.Paths.GamesRoot, "NES", fmt.Sprintf("Game_%02d.nes", i)), 100+i)
	}
	id := addNES(t, svc)
	found, err := svc.ScanStation(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, n, found)
	return id
}

func viewNames(svc *catalog.Service) []string {
	var names []string
	for _, e := range svc.ViewEntries() {
		names = append(names, e.Name)
	}
	return names
}
