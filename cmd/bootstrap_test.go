package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"festwatch/internal/storage"
)

const duplicateCatalog = `
expansions:
  - id: 1
    name: Core Tyria
    categories:
      - id: 1
        name: World Bosses
        toggleable: true
        events:
          - id: behemoth
            name: Shadow Behemoth
            cycle: 2h
            offset: 2024-01-01T01:45:00Z
          - id: behemoth
            name: Shadow Behemoth Copy
            cycle: 3h
            offset: 2024-01-01T00:00:00Z
  - id: 9
    name: Festivals
    categories:
      - id: 90
        name: Festivals
        events:
          - id: halloween
            name: Halloween
            windows:
              - start: 2026-10-13T17:00:00Z
                end: 2026-11-03T17:00:00Z
              - start: 2026-10-13T17:00:00Z
                end: 2026-10-20T17:00:00Z
          - id: wintersday
            name: Wintersday
            windows:
              - start: 2026-12-15T17:00:00Z
                end: 2027-01-05T17:00:00Z
`

func TestLoadCatalogSkipsRejectedEvents(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/catalog.yaml", []byte(duplicateCatalog), 0o644))

	store, err := storage.Open(ctx, filepath.Join(t.TempDir(), "festwatch.db"))
	require.NoError(t, err)
	defer store.Close()

	catalog, err := loadCatalog(ctx, fs, "/catalog.yaml", store, zap.NewNop().Sugar())
	require.NoError(t, err)

	require.Len(t, catalog.Events, 2)
	assert.Equal(t, "behemoth", catalog.Events[0].ID)
	assert.Equal(t, "Shadow Behemoth", catalog.Events[0].Name)
	assert.Equal(t, "wintersday", catalog.Events[1].ID)
}
