package app

import (
	"fmt"

	"glbindgen/internal/types"
)

// checkTargetHints returns hints for flags whose effect every selected
// target already enables in the targets file.
func checkTargetHints(opts TargetOptions, format bool, targets []types.Target) []string {
	if len(targets) == 0 {
		return nil
	}
	allFormat := true
	allStrict := true
	for _, target := range targets {
		allFormat = allFormat && target.Output.Format
		allStrict = allStrict && target.Selection.Strict
	}
	checks := []struct {
		flag      string
		key       string
		provided  bool
		redundant bool
	}{
		{flag: "--format", key: "output.format", provided: format, redundant: allFormat},
		{flag: "--strict", key: "selection.strict", provided: opts.Strict, redundant: allStrict},
	}

	var hints []string
	for _, c := range checks {
		if c.provided && c.redundant {
			hints = append(hints, fmt.Sprintf(
				"hint: %s is also set for every selected target (%s); you can omit the flag",
				c.flag, c.key,
			))
		}
	}
	return hints
}
