package app

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"glbindgen/internal/core"
	"glbindgen/internal/policies"
	"glbindgen/internal/types"
)

type resolvedTarget struct {
	Target   types.Target
	Registry types.Registry
	Result   core.ResolveResult
}

// loadTargets reads and validates the targets file, then narrows it to the
// requested names in file order.
func (s Service) loadTargets(ctx context.Context, opts TargetOptions) ([]types.Target, error) {
	targetsPath := strings.TrimSpace(opts.TargetsPath)
	if targetsPath == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("targets file path is required")
	}
	file, err := s.Targets.LoadTargets(targetsPath)
	if err != nil {
		return nil, err
	}
	if err := core.NewTargetValidator().ValidateTargets(ctx, file.Targets); err != nil {
		return nil, err
	}
	if len(opts.Names) == 0 {
		return file.Targets, nil
	}
	byName := make(map[string]types.Target, len(file.Targets))
	for _, target := range file.Targets {
		byName[target.Name] = target
	}
	wanted := map[string]struct{}{}
	for _, name := range opts.Names {
		name = strings.TrimSpace(name)
		if _, ok := byName[name]; !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("target %s not found in %s", name, targetsPath))
		}
		wanted[name] = struct{}{}
	}
	var selected []types.Target
	for _, target := range file.Targets {
		if _, ok := wanted[target.Name]; ok {
			selected = append(selected, target)
		}
	}
	return selected, nil
}

// resolveTarget loads the target's registry and runs the resolver over it.
func (s Service) resolveTarget(ctx context.Context, target types.Target, opts TargetOptions) (resolvedTarget, error) {
	if opts.Strict {
		target.Selection.Strict = true
	}
	registryPath, err := s.registryPath(ctx, target, opts)
	if err != nil {
		return resolvedTarget{}, err
	}
	reg, err := s.registryPort(target.Registry.Format).LoadRegistry(ctx, registryPath, target)
	if err != nil {
		return resolvedTarget{}, err
	}
	policy, err := policies.NewSelectionPolicy(target.Selection)
	if err != nil {
		return resolvedTarget{}, err
	}
	resolver, err := core.NewResolver(reg, policy)
	if err != nil {
		return resolvedTarget{}, err
	}
	result, err := resolver.Resolve(ctx, reg)
	if err != nil {
		return resolvedTarget{}, err
	}
	log.Ctx(ctx).Debug().
		Str("target", target.Name).
		Str("registry", reg.Source).
		Int("groups", len(result.Groups)).
		Int("unknown", len(result.Unknown)).
		Msg("target resolved")
	return resolvedTarget{Target: target, Registry: reg, Result: result}, nil
}

// registryPath returns a local path for the target's registry, downloading
// URL sources into the cache directory when needed.
func (s Service) registryPath(ctx context.Context, target types.Target, opts TargetOptions) (string, error) {
	if target.Registry.Path != "" {
		return target.Registry.Path, nil
	}
	cacheDir, err := resolveCacheDir(opts.CacheDir)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(cacheDir, target.Name, registryFileName(target.Registry.URL))
	if !opts.Refresh {
		if _, err := os.Stat(dest); err == nil {
			log.Ctx(ctx).Debug().Str("path", dest).Msg("using cached registry")
			return dest, nil
		}
	}
	if s.Fetcher == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("registry fetcher is not configured")
	}
	if err := s.Fetcher.Fetch(ctx, target.Registry.URL, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func resolveCacheDir(value string) (string, error) {
	if dir := strings.TrimSpace(value); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("cache directory is required").
			WithCause(err)
	}
	return filepath.Join(base, "glbindgen"), nil
}

func registryFileName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err == nil {
		if name := path.Base(parsed.Path); name != "" && name != "/" && name != "." {
			return name
		}
	}
	return "registry"
}

func summarizeGroups(groups []types.ResolvedGroup) []GroupSummary {
	summaries := make([]GroupSummary, 0, len(groups))
	for _, group := range groups {
		summaries = append(summaries, GroupSummary{
			Kind:     group.Kind,
			Name:     group.Name,
			Types:    len(group.Types),
			Enums:    len(group.Enums),
			Commands: len(group.Commands),
		})
	}
	return summaries
}
