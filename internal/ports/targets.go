package ports

import "glbindgen/internal/types"

type TargetFilePort interface {
	LoadTargets(path string) (types.TargetFile, error)
}
