package resources

import (
	"embed"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
)

const (
	iconFile    = "icon.svg"
	catalogFile = "catalog.yaml"
)

//go:embed icon.svg catalog.yaml
var assetFS embed.FS

var iconCache sync.Map

// Catalog returns the embedded default event catalog.
func Catalog() []byte {
	data, err := assetFS.ReadFile(catalogFile)
	if err != nil {
		panic(fmt.Errorf("load embedded catalog: %w", err))
	}
	return data
}

// Icon returns the application icon as a Fyne resource.
func Icon() (fyne.Resource, error) {
	return loadResource(assetFS, iconFile, &iconCache)
}

// MustIcon returns the application icon or panics on error.
func MustIcon() fyne.Resource {
	resource, err := Icon()
	if err != nil {
		panic(err)
	}
	return resource
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
