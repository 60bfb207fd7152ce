package core

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"glbindgen/internal/policies"
	"glbindgen/internal/types"
)

type TargetValidator struct{}

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	namespacePattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*$`)
)

func NewTargetValidator() TargetValidator {
	return TargetValidator{}
}

// ValidateTargets checks every target and rejects duplicate names and
// targets that would write the same files.
func (v TargetValidator) ValidateTargets(ctx context.Context, targets []types.Target) error {
	if len(targets) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("targets must not be empty")
	}
	names := map[string]struct{}{}
	outputs := map[string]string{}
	for _, target := range targets {
		if err := v.ValidateTarget(ctx, target); err != nil {
			return err
		}
		if _, ok := names[target.Name]; ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate target name %s", target.Name))
		}
		names[target.Name] = struct{}{}
		for _, file := range []string{target.Output.Header, target.Output.Source} {
			if file == "" {
				continue
			}
			path := filepath.Clean(filepath.Join(target.Output.Dir, file))
			if owner, ok := outputs[path]; ok {
				return errbuilder.New().
					WithCode(errbuilder.CodeAlreadyExists).
					WithMsg(fmt.Sprintf("targets %s and %s both write %s", owner, target.Name, path))
			}
			outputs[path] = target.Name
		}
	}
	return nil
}

func (v TargetValidator) ValidateTarget(ctx context.Context, target types.Target) error {
	if strings.TrimSpace(target.Name) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("target name must not be empty")
	}
	if err := validateRegistrySource(target.Name, target.Registry); err != nil {
		return err
	}
	assert.NotEmpty(ctx, target.Registry.Label(), "registry source must be set")
	if _, err := policies.NewSelectionPolicy(target.Selection); err != nil {
		return err
	}
	if target.Registry.Format != types.RegistryFormatHeader && strings.TrimSpace(target.Selection.API) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("target %s: selection.api must be set for xml registries", target.Name))
	}
	if err := validateOutput(target.Name, target.Output); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Str("target", target.Name).Msg("target validated")
	return nil
}

func validateRegistrySource(name string, source types.RegistrySource) error {
	hasPath := strings.TrimSpace(source.Path) != ""
	hasURL := strings.TrimSpace(source.URL) != ""
	if hasPath == hasURL {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("target %s: registry needs exactly one of path or url", name))
	}
	if hasURL && !strings.HasPrefix(source.URL, "http://") && !strings.HasPrefix(source.URL, "https://") {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("target %s: registry url must be http or https", name))
	}
	switch source.Format {
	case "", types.RegistryFormatXML:
		if source.Grammar != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("target %s: grammar is only valid for header registries", name))
		}
		return nil
	case types.RegistryFormatHeader:
		return validateGrammar(name, source.Grammar)
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("target %s: invalid registry format %s", name, source.Format))
	}
}

func validateGrammar(name string, grammar *types.HeaderGrammar) error {
	if grammar == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("target %s: header registries require a grammar", name))
	}
	patterns := []struct {
		field    string
		pattern  string
		captures int
	}{
		{field: "group_pattern", pattern: grammar.GroupPattern, captures: 2},
		{field: "type_pattern", pattern: grammar.TypePattern, captures: 1},
		{field: "name_pattern", pattern: grammar.NamePattern, captures: 1},
	}
	for _, p := range patterns {
		if strings.TrimSpace(p.pattern) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("target %s: grammar.%s must be set", name, p.field))
		}
		compiled, err := regexp.Compile(p.pattern)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("target %s: grammar.%s does not compile", name, p.field)).
				WithCause(err)
		}
		if compiled.NumSubexp() < p.captures {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("target %s: grammar.%s needs %d capture groups", name, p.field, p.captures))
		}
	}
	return nil
}

func validateOutput(name string, output types.OutputConfig) error {
	if strings.TrimSpace(output.Dir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("target %s: output.dir must be set", name))
	}
	if !namespacePattern.MatchString(output.Namespace) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("target %s: output.namespace %q is not a valid namespace", name, output.Namespace))
	}
	if !identifierPattern.MatchString(output.InitFunction) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("target %s: output.init_function %q is not a valid identifier", name, output.InitFunction))
	}
	if output.IncludeGuard != "" && !identifierPattern.MatchString(output.IncludeGuard) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("target %s: output.include_guard %q is not a valid identifier", name, output.IncludeGuard))
	}
	for _, file := range []string{output.Header, output.Source} {
		if file != "" && filepath.Base(file) != file {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("target %s: output file %s must be a bare file name", name, file))
		}
	}
	if output.Header != "" && output.Header == output.Source {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("target %s: header and source must differ", name))
	}
	return nil
}
