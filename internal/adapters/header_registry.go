package adapters

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"glbindgen/internal/ports"
	"glbindgen/internal/shared"
	"glbindgen/internal/types"
)

// HeaderRegistryAdapter reads extension headers that delimit groups with
// include-guard style blocks. Every group becomes one require clause of
// commands; there are no types or enums.
type HeaderRegistryAdapter struct{}

func NewHeaderRegistryAdapter() HeaderRegistryAdapter {
	return HeaderRegistryAdapter{}
}

type headerGrammar struct {
	group         *regexp.Regexp
	pointerType   *regexp.Regexp
	name          *regexp.Regexp
	featurePrefix string
}

func (a HeaderRegistryAdapter) LoadRegistry(ctx context.Context, path string, target types.Target) (types.Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.Registry{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("registry %s not found", path)).
			WithCause(err)
	}
	reg, err := a.ParseHeader(path, string(content), target)
	if err != nil {
		return types.Registry{}, err
	}
	log.Ctx(ctx).Debug().
		Str("registry", path).
		Int("commands", len(reg.Commands)).
		Int("features", len(reg.Features)).
		Int("extensions", len(reg.Extensions)).
		Msg("header registry parsed")
	return reg, nil
}

// ParseHeader splits content into groups with the target grammar. The group
// pattern captures the group name first. Exactly one other capture holds the
// body; every remaining capture must repeat the name. Matches whose repeats
// disagree are retried one byte further on.
func (a HeaderRegistryAdapter) ParseHeader(source string, content string, target types.Target) (types.Registry, error) {
	grammar, err := compileHeaderGrammar(source, target.Registry.Grammar)
	if err != nil {
		return types.Registry{}, err
	}

	reg := types.Registry{Source: source}
	pointerTypes := map[string]string{}
	pos := 0
	for pos < len(content) {
		loc := grammar.group.FindStringSubmatchIndex(content[pos:])
		if loc == nil {
			break
		}
		captures := make([]string, 0, len(loc)/2-1)
		for i := 2; i < len(loc); i += 2 {
			if loc[i] < 0 {
				captures = append(captures, "")
				continue
			}
			captures = append(captures, content[pos+loc[i]:pos+loc[i+1]])
		}
		name, body, ok := splitGroupCaptures(captures)
		if !ok {
			pos += loc[0] + 1
			continue
		}
		pos += max(loc[1], 1)

		pointers := grammar.pointerType.FindAllStringSubmatch(body, -1)
		names := grammar.name.FindAllStringSubmatch(body, -1)
		if len(pointers) != len(names) {
			return types.Registry{}, shared.MalformedRegistry(source, fmt.Sprintf(
				"group %s declares %d pointer types but %d functions", name, len(pointers), len(names)))
		}

		clause := types.Clause{}
		for i := range names {
			command := types.Command{Name: names[i][1], PointerType: pointers[i][1]}
			if existing, ok := pointerTypes[command.Name]; ok {
				if existing != command.PointerType {
					return types.Registry{}, shared.MalformedRegistry(source, fmt.Sprintf(
						"function %s declared as %s and %s", command.Name, existing, command.PointerType))
				}
			} else {
				pointerTypes[command.Name] = command.PointerType
				reg.Commands = append(reg.Commands, command)
			}
			clause.Commands = append(clause.Commands, command.Name)
		}

		group := types.GroupSpec{Name: name, Require: []types.Clause{clause}}
		if grammar.featurePrefix != "" && strings.HasPrefix(name, grammar.featurePrefix) {
			group.Kind = types.GroupKindFeature
			group.API = target.Selection.API
			group.Number = strings.ReplaceAll(strings.TrimPrefix(name, grammar.featurePrefix), "_", ".")
			reg.Features = append(reg.Features, group)
			continue
		}
		group.Kind = types.GroupKindExtension
		group.Supported = []string{target.Selection.Supported}
		reg.Extensions = append(reg.Extensions, group)
	}
	return reg, nil
}

func compileHeaderGrammar(source string, grammar *types.HeaderGrammar) (headerGrammar, error) {
	if grammar == nil {
		return headerGrammar{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("header registry %s requires a grammar", source))
	}
	compiled := headerGrammar{featurePrefix: grammar.FeaturePrefix}
	var err error
	if compiled.group, err = compilePattern("group_pattern", grammar.GroupPattern, 2); err != nil {
		return headerGrammar{}, err
	}
	if compiled.pointerType, err = compilePattern("type_pattern", grammar.TypePattern, 1); err != nil {
		return headerGrammar{}, err
	}
	if compiled.name, err = compilePattern("name_pattern", grammar.NamePattern, 1); err != nil {
		return headerGrammar{}, err
	}
	return compiled, nil
}

func compilePattern(field string, pattern string, captures int) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid grammar %s", field)).
			WithCause(err)
	}
	if re.NumSubexp() < captures {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("grammar %s needs %d capture groups", field, captures))
	}
	return re, nil
}

// splitGroupCaptures returns the group name and body. Captures equal to the
// name are repeats of it; more than one other capture is inconsistent.
func splitGroupCaptures(captures []string) (string, string, bool) {
	if len(captures) < 2 || captures[0] == "" {
		return "", "", false
	}
	name := captures[0]
	body := ""
	bodies := 0
	for _, capture := range captures[1:] {
		if capture == name {
			continue
		}
		body = capture
		bodies++
	}
	if bodies > 1 {
		return "", "", false
	}
	return name, body, true
}

var _ ports.RegistryPort = HeaderRegistryAdapter{}
