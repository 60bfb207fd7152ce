package ports

import (
	"context"

	"glbindgen/internal/types"
)

// RegistryPort parses a local registry file into an unresolved registry.
// Header-grammar loaders read the grammar, supported token and exclude list
// from the target.
type RegistryPort interface {
	LoadRegistry(ctx context.Context, path string, target types.Target) (types.Registry, error)
}

type RegistryFetchPort interface {
	Fetch(ctx context.Context, url string, dest string) error
}
