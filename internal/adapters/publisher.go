package adapters

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"glbindgen/internal/ports"
)

var formattableExtensions = map[string]struct{}{
	".h":   {},
	".hh":  {},
	".hpp": {},
	".c":   {},
	".cc":  {},
	".cpp": {},
	".cxx": {},
	".inl": {},
}

// FilePublisherAdapter stages a file set in a sibling directory of the
// destination, optionally formats it there, and renames it into place.
type FilePublisherAdapter struct {
	Formatter ports.FormatterPort
}

func NewFilePublisherAdapter(formatter ports.FormatterPort) FilePublisherAdapter {
	return FilePublisherAdapter{Formatter: formatter}
}

func (a FilePublisherAdapter) Publish(ctx context.Context, dir string, files map[string][]byte, format bool) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	names := make([]string, 0, len(files))
	for name := range files {
		if name != filepath.Base(name) || name == "." || name == ".." {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("output file name must not contain a directory: " + name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	parent := filepath.Dir(filepath.Clean(dir))
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output parent directory").
			WithCause(err)
	}
	staging, err := os.MkdirTemp(parent, ".glbindgen-stage-*")
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create staging directory").
			WithCause(err)
	}
	defer os.RemoveAll(staging)

	var formattable []string
	for _, name := range names {
		path := filepath.Join(staging, name)
		if err := os.WriteFile(path, files[name], 0644); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to stage " + name).
				WithCause(err)
		}
		if _, ok := formattableExtensions[filepath.Ext(name)]; ok {
			formattable = append(formattable, path)
		}
	}

	if format && len(formattable) > 0 {
		if a.Formatter == nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("formatting requested but no formatter is configured")
		}
		if err := copyStyleFile(dir, staging); err != nil {
			return nil, err
		}
		if err := a.Formatter.Format(ctx, formattable); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	published, err := swapInto(dir, staging, names)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Str("dir", dir).Strs("files", names).Msg("published generated files")
	return published, nil
}

// renameFile is swapped in tests to simulate a failing rename.
var renameFile = os.Rename

type publishedFile struct {
	dest   string
	backup string
	placed bool
}

// swapInto renames the staged files into dir. Files they replace are moved
// into the staging directory first and restored if any rename fails.
func swapInto(dir string, staging string, names []string) ([]string, error) {
	backups := filepath.Join(staging, ".previous")
	if err := os.Mkdir(backups, 0755); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create backup directory").
			WithCause(err)
	}
	done := make([]publishedFile, 0, len(names))
	fail := func(name string, err error) ([]string, error) {
		rollback(done)
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to publish " + name).
			WithCause(err)
	}
	for _, name := range names {
		file := publishedFile{dest: filepath.Join(dir, name)}
		if _, err := os.Lstat(file.dest); err == nil {
			file.backup = filepath.Join(backups, name)
			if err := renameFile(file.dest, file.backup); err != nil {
				return fail(name, err)
			}
		} else if !os.IsNotExist(err) {
			return fail(name, err)
		}
		done = append(done, file)
		if err := renameFile(filepath.Join(staging, name), file.dest); err != nil {
			return fail(name, err)
		}
		done[len(done)-1].placed = true
	}
	published := make([]string, 0, len(done))
	for _, file := range done {
		published = append(published, file.dest)
	}
	return published, nil
}

func rollback(done []publishedFile) {
	for i := len(done) - 1; i >= 0; i-- {
		file := done[i]
		if file.placed {
			_ = os.Remove(file.dest)
		}
		if file.backup != "" {
			_ = renameFile(file.backup, file.dest)
		}
	}
}

// copyStyleFile makes a .clang-format living in the output directory visible
// to the formatter while it runs over the staging directory.
func copyStyleFile(dir string, staging string) error {
	content, err := os.ReadFile(filepath.Join(dir, ".clang-format"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read .clang-format").
			WithCause(err)
	}
	if err := os.WriteFile(filepath.Join(staging, ".clang-format"), content, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stage .clang-format").
			WithCause(err)
	}
	return nil
}
