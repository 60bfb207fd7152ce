package app

import (
	"glbindgen/internal/binding"
	"glbindgen/internal/types"
)

type ValidateRequest struct {
	TargetsPath string
}

type ValidateResult struct {
	Targets []string
}

// TargetOptions are shared by every command that resolves targets.
type TargetOptions struct {
	TargetsPath string
	// Names restricts the run to these targets; empty selects all.
	Names    []string
	CacheDir string
	// Refresh re-downloads URL registries already in the cache.
	Refresh bool
	// Strict forces strict selection on every target.
	Strict bool
}

type ResolveRequest struct {
	TargetOptions
	WriteReports bool
}

type GroupSummary struct {
	Kind     types.GroupKind
	Name     string
	Types    int
	Enums    int
	Commands int
}

type TargetResolution struct {
	Name    string
	Source  string
	Groups  []GroupSummary
	Unknown []types.UnknownReference
	Files   []string
}

type ResolveResult struct {
	Targets []TargetResolution
	Hints   []string
}

type GenerateRequest struct {
	TargetOptions
	// Format runs clang-format on every target, in addition to targets
	// that enable output.format.
	Format bool
	Jobs   int
}

type GeneratedTarget struct {
	Name    string
	Dir     string
	Files   []string
	Groups  int
	Unknown int
}

type GenerateResult struct {
	Targets []GeneratedTarget
	Hints   []string
}

type InspectRequest struct {
	OutputDir string
}

type InspectResult struct {
	Entries int
	Groups  []GroupSummary
	Unknown []types.UnknownReference
}

type ProbeRequest struct {
	TargetOptions
	SymbolsPath string
}

type ProbeResult struct {
	Target    string
	Symbols   int
	Statuses  []binding.GroupStatus
	Supported int
}

type FetchRequest struct {
	BaseURL   string
	Names     []string
	URLs      []string
	OutputDir string
}

type FetchResult struct {
	Files []string
}
