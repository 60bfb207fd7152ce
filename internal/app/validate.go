package app

import "context"

// Validate checks the targets file against its schema and the semantic
// target rules without touching any registry.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	targets, err := s.loadTargets(ctx, TargetOptions{TargetsPath: req.TargetsPath})
	if err != nil {
		return ValidateResult{}, err
	}
	names := make([]string, 0, len(targets))
	for _, target := range targets {
		names = append(names, target.Name)
	}
	return ValidateResult{Targets: names}, nil
}
