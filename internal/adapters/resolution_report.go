package adapters

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"glbindgen/internal/types"
)

const (
	ResolutionLockFile = "resolution.lock"
	UnknownReportFile  = "unknown.report"
)

type ResolutionReportAdapter struct{}

func NewResolutionReportAdapter() ResolutionReportAdapter {
	return ResolutionReportAdapter{}
}

// RenderResolutionReport renders resolution.lock and unknown.report. Entries
// keep resolver order so the lock diffs cleanly between regenerations.
func (a ResolutionReportAdapter) RenderResolutionReport(report types.ResolutionReport) map[string][]byte {
	lock := &strings.Builder{}
	fmt.Fprintf(lock, "# target=%s\n", report.Target)
	for _, entry := range report.Entries {
		fmt.Fprintf(lock, "%s,%s,%s,%s\n", entry.GroupKind, entry.Group, entry.SymbolKind, entry.Symbol)
	}
	unknown := &strings.Builder{}
	fmt.Fprintf(unknown, "# target=%s\n", report.Target)
	for _, ref := range report.Unknown {
		fmt.Fprintf(unknown, "%s,%s,%s\n", ref.Group, ref.Kind, ref.Name)
	}
	return map[string][]byte{
		ResolutionLockFile: []byte(lock.String()),
		UnknownReportFile:  []byte(unknown.String()),
	}
}

func (a ResolutionReportAdapter) ReadResolutionLock(path string) ([]types.ResolutionEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("resolution.lock not found").
			WithCause(err)
	}
	var entries []types.ResolutionEntry
	for i, line := range reportLines(content) {
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 4 {
			return nil, invalidReportLine(ResolutionLockFile, i, line)
		}
		groupKind := types.GroupKind(strings.TrimSpace(parts[0]))
		symbolKind := types.SymbolKind(strings.TrimSpace(parts[2]))
		if !validGroupKind(groupKind) || !validSymbolKind(symbolKind) {
			return nil, invalidReportLine(ResolutionLockFile, i, line)
		}
		entries = append(entries, types.ResolutionEntry{
			GroupKind:  groupKind,
			Group:      strings.TrimSpace(parts[1]),
			SymbolKind: symbolKind,
			Symbol:     strings.TrimSpace(parts[3]),
		})
	}
	return entries, nil
}

func (a ResolutionReportAdapter) ReadUnknownReport(path string) ([]types.UnknownReference, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("unknown.report not found").
			WithCause(err)
	}
	var refs []types.UnknownReference
	for i, line := range reportLines(content) {
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return nil, invalidReportLine(UnknownReportFile, i, line)
		}
		kind := types.SymbolKind(strings.TrimSpace(parts[1]))
		if !validSymbolKind(kind) {
			return nil, invalidReportLine(UnknownReportFile, i, line)
		}
		refs = append(refs, types.UnknownReference{
			Group: strings.TrimSpace(parts[0]),
			Kind:  kind,
			Name:  strings.TrimSpace(parts[2]),
		})
	}
	return refs, nil
}

// reportLines returns trimmed lines with comments blanked so indexes still
// map to line numbers.
func reportLines(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			line = ""
		}
		lines[i] = line
	}
	return lines
}

func invalidReportLine(file string, index int, line string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid %s line %d: %q", file, index+1, line))
}

func validGroupKind(kind types.GroupKind) bool {
	return kind == types.GroupKindFeature || kind == types.GroupKindExtension
}

func validSymbolKind(kind types.SymbolKind) bool {
	switch kind {
	case types.SymbolKindType, types.SymbolKindEnum, types.SymbolKindCommand:
		return true
	}
	return false
}
