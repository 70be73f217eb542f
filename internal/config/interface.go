package config

import "context"

// Source is one named manifest document.
type Source struct {
	Name string
	Data []byte
}

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads manifests from files under the given paths.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// LoadSources reads manifests that are already in memory, such as the
	// ones embedded in modules.
	LoadSources(ctx context.Context, sources ...Source) (*Model, error)
}
