package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"glbindgen/internal/binding"
)

// Probe runs the binding initializer of one target against a list of
// exported symbols and reports which groups would be supported.
func (s Service) Probe(ctx context.Context, req ProbeRequest) (ProbeResult, error) {
	symbolsPath := strings.TrimSpace(req.SymbolsPath)
	if symbolsPath == "" {
		return ProbeResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("symbol list path is required")
	}
	if len(req.Names) != 1 {
		return ProbeResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("probe requires exactly one target")
	}
	targets, err := s.loadTargets(ctx, req.TargetOptions)
	if err != nil {
		return ProbeResult{}, err
	}
	target := targets[0]
	symbols, err := s.Symbols.ReadSymbols(symbolsPath)
	if err != nil {
		return ProbeResult{}, err
	}
	resolved, err := s.resolveTarget(ctx, target, req.TargetOptions)
	if err != nil {
		return ProbeResult{}, err
	}

	plan := resolved.Result.Plan(target.Name, resolved.Registry.Source)
	table := binding.NewTable(binding.GroupsFromPlan(plan, target.Output.SkipsEmptyGroups()))
	if err := table.Init(ctx, binding.SymbolResolver(symbols), binding.Hooks{}); err != nil {
		return ProbeResult{}, err
	}
	result := ProbeResult{
		Target:   target.Name,
		Symbols:  len(symbols),
		Statuses: table.Statuses(),
	}
	for _, status := range result.Statuses {
		if status.Supported {
			result.Supported++
		}
	}
	return result, nil
}
