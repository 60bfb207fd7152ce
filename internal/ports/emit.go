package ports

import (
	"context"

	"glbindgen/internal/types"
)

// EmitterPort renders a binding plan into file contents keyed by file name.
type EmitterPort interface {
	Render(plan types.BindingPlan, output types.OutputConfig) (map[string][]byte, error)
}

type FormatterPort interface {
	Format(ctx context.Context, paths []string) error
}

// PublisherPort writes a complete file set into dir, or nothing at all.
type PublisherPort interface {
	Publish(ctx context.Context, dir string, files map[string][]byte, format bool) ([]string, error)
}
