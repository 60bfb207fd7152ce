package types

// ResolutionEntry is one claim recorded in resolution.lock.
type ResolutionEntry struct {
	GroupKind  GroupKind
	Group      string
	SymbolKind SymbolKind
	Symbol     string
}

type ResolutionReport struct {
	Target  string
	Entries []ResolutionEntry
	Unknown []UnknownReference
}

// GroupCommands lists the command names owned by each group, preserving
// group order. Groups without commands are kept.
type GroupCommands struct {
	Kind     GroupKind
	Name     string
	Commands []string
}

// BindingPlan is everything the emission layer needs for one target.
type BindingPlan struct {
	Target     string
	Source     string
	Features   []ResolvedGroup
	Extensions []ResolvedGroup
	Unknown    []UnknownReference
}
