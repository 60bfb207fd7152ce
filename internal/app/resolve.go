package app

import (
	"context"
)

// Resolve runs the resolver for each selected target. With WriteReports the
// resolution.lock and unknown.report files are published to the target's
// output directory.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	targets, err := s.loadTargets(ctx, req.TargetOptions)
	if err != nil {
		return ResolveResult{}, err
	}
	result := ResolveResult{Hints: checkTargetHints(req.TargetOptions, false, targets)}
	for _, target := range targets {
		resolved, err := s.resolveTarget(ctx, target, req.TargetOptions)
		if err != nil {
			return ResolveResult{}, err
		}
		summary := TargetResolution{
			Name:    target.Name,
			Source:  resolved.Registry.Source,
			Groups:  summarizeGroups(resolved.Result.Groups),
			Unknown: resolved.Result.Unknown,
		}
		if req.WriteReports {
			files := s.Reports.RenderResolutionReport(resolved.Result.Report(target.Name))
			published, err := s.publisher().Publish(ctx, target.Output.Dir, files, false)
			if err != nil {
				return ResolveResult{}, err
			}
			summary.Files = published
		}
		result.Targets = append(result.Targets, summary)
	}
	return result, nil
}
