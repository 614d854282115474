package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"festwatch/internal/core/model"
	"festwatch/internal/storage"
)

func TestEmbeddedCatalogIsValid(t *testing.T) {
	catalog, err := storage.ParseCatalog(Catalog())
	require.NoError(t, err)
	require.NotEmpty(t, catalog.Events)

	seen := make(map[string]bool)
	for _, def := range catalog.Events {
		assert.NoError(t, model.Validate(def), def.ID)
		assert.False(t, seen[def.ID], "duplicate event id %s", def.ID)
		seen[def.ID] = true
	}

	festival := catalog.FestivalCategoryID()
	require.NotZero(t, festival)
	for _, def := range catalog.EventsOf(festival) {
		assert.True(t, def.IsFestival(), def.ID)
	}
}

func TestIconIsCached(t *testing.T) {
	first, err := Icon()
	require.NoError(t, err)
	second, err := Icon()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "icon.svg", first.Name())
	assert.NotEmpty(t, first.Content())
}
