package adapters

import (
	"context"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"glbindgen/internal/shared"
)

const defaultClangFormat = "clang-format"

// ClangFormatAdapter formats files in place with clang-format, picking up the
// nearest .clang-format file above each input.
type ClangFormatAdapter struct {
	Binary string
}

func NewClangFormatAdapter(binary string) ClangFormatAdapter {
	if strings.TrimSpace(binary) == "" {
		binary = defaultClangFormat
	}
	return ClangFormatAdapter{Binary: binary}
}

func (a ClangFormatAdapter) Format(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	binary, err := exec.LookPath(a.Binary)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("clang-format is not available: " + a.Binary).
			WithCause(err)
	}
	args := append([]string{"-style=file", "-i"}, paths...)
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("clang-format failed").
			WithCause(shared.CommandError(output, err))
	}
	log.Ctx(ctx).Debug().Strs("files", paths).Msg("formatted generated files")
	return nil
}
