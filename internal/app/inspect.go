package app

import (
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"glbindgen/internal/adapters"
	"glbindgen/internal/types"
)

// Inspect summarizes a previously generated output directory from its
// resolution.lock and unknown.report.
func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	entries, err := s.Reports.ReadResolutionLock(filepath.Join(outputDir, adapters.ResolutionLockFile))
	if err != nil {
		return InspectResult{}, err
	}
	unknown, err := s.Reports.ReadUnknownReport(filepath.Join(outputDir, adapters.UnknownReportFile))
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{
		Entries: len(entries),
		Groups:  summarizeEntries(entries),
		Unknown: unknown,
	}, nil
}

// summarizeEntries counts claims per group in order of first appearance.
func summarizeEntries(entries []types.ResolutionEntry) []GroupSummary {
	var summaries []GroupSummary
	index := map[string]int{}
	for _, entry := range entries {
		i, ok := index[entry.Group]
		if !ok {
			i = len(summaries)
			index[entry.Group] = i
			summaries = append(summaries, GroupSummary{Kind: entry.GroupKind, Name: entry.Group})
		}
		switch entry.SymbolKind {
		case types.SymbolKindType:
			summaries[i].Types++
		case types.SymbolKindEnum:
			summaries[i].Enums++
		case types.SymbolKindCommand:
			summaries[i].Commands++
		}
	}
	return summaries
}
