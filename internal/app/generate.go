package app

import (
	"context"
	"maps"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"glbindgen/internal/types"
)

const defaultGenerateJobs = 4

// Generate resolves, renders and publishes every selected target. Targets
// run concurrently; each publishes its header, source and reports together
// or not at all.
func (s Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	targets, err := s.loadTargets(ctx, req.TargetOptions)
	if err != nil {
		return GenerateResult{}, err
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = defaultGenerateJobs
	}

	generated := make([]GeneratedTarget, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, target := range targets {
		g.Go(func() error {
			out, err := s.generateTarget(gctx, target, req)
			if err != nil {
				return err
			}
			generated[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{
		Targets: generated,
		Hints:   checkTargetHints(req.TargetOptions, req.Format, targets),
	}, nil
}

func (s Service) generateTarget(ctx context.Context, target types.Target, req GenerateRequest) (GeneratedTarget, error) {
	resolved, err := s.resolveTarget(ctx, target, req.TargetOptions)
	if err != nil {
		return GeneratedTarget{}, err
	}
	plan := resolved.Result.Plan(target.Name, resolved.Registry.Source)
	files, err := s.Emitter.Render(plan, target.Output)
	if err != nil {
		return GeneratedTarget{}, err
	}
	maps.Copy(files, s.Reports.RenderResolutionReport(resolved.Result.Report(target.Name)))

	published, err := s.publisher().Publish(ctx, target.Output.Dir, files, req.Format || target.Output.Format)
	if err != nil {
		return GeneratedTarget{}, err
	}
	log.Ctx(ctx).Debug().
		Str("target", target.Name).
		Str("dir", target.Output.Dir).
		Int("files", len(published)).
		Msg("target generated")
	return GeneratedTarget{
		Name:    target.Name,
		Dir:     target.Output.Dir,
		Files:   published,
		Groups:  len(resolved.Result.Groups),
		Unknown: len(resolved.Result.Unknown),
	}, nil
}
