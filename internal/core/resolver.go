package core

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"glbindgen/internal/policies"
	"glbindgen/internal/shared"
	"glbindgen/internal/types"
)

type Resolver struct {
	Catalog *SymbolCatalog
	Policy  policies.SelectionPolicy
}

type ResolveResult struct {
	Groups  []types.ResolvedGroup
	Unknown []types.UnknownReference
	Claimed Claimed
}

// RemovalSet holds names a group must not claim.
type RemovalSet struct {
	Types    map[string]struct{}
	Enums    map[string]struct{}
	Commands map[string]struct{}
}

func NewRemovalSet() RemovalSet {
	return RemovalSet{
		Types:    map[string]struct{}{},
		Enums:    map[string]struct{}{},
		Commands: map[string]struct{}{},
	}
}

func (s RemovalSet) Len() int {
	return len(s.Types) + len(s.Enums) + len(s.Commands)
}

func (s RemovalSet) has(kind types.SymbolKind, name string) bool {
	var ok bool
	switch kind {
	case types.SymbolKindType:
		_, ok = s.Types[name]
	case types.SymbolKindEnum:
		_, ok = s.Enums[name]
	case types.SymbolKindCommand:
		_, ok = s.Commands[name]
	}
	return ok
}

// GroupResolution is the outcome of resolving one group against an
// accumulator.
type GroupResolution struct {
	Group   types.ResolvedGroup
	Unknown []types.UnknownReference
}

func NewResolver(reg types.Registry, policy policies.SelectionPolicy) (Resolver, error) {
	catalog, err := NewSymbolCatalog(reg, policy.Selection.API)
	if err != nil {
		return Resolver{}, err
	}
	return Resolver{Catalog: catalog, Policy: policy}, nil
}

// SelectGroups returns the features and then the extensions the policy
// accepts, each in source order.
func (r Resolver) SelectGroups(reg types.Registry) ([]types.GroupSpec, error) {
	selected := make([]types.GroupSpec, 0, len(reg.Features)+len(reg.Extensions))
	for _, feature := range reg.Features {
		ok, err := r.Policy.MatchesFeature(feature)
		if err != nil {
			return nil, err
		}
		if ok {
			feature.Kind = types.GroupKindFeature
			selected = append(selected, feature)
		}
	}
	for _, extension := range reg.Extensions {
		if r.Policy.MatchesExtension(extension) {
			extension.Kind = types.GroupKindExtension
			selected = append(selected, extension)
		}
	}
	return selected, nil
}

// Resolve assigns every selected symbol to the first group that claims it.
// Unknown references are skipped and reported unless the selection is
// strict, in which case the first one fails the resolution.
func (r Resolver) Resolve(ctx context.Context, reg types.Registry) (ResolveResult, error) {
	if r.Catalog == nil {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires a symbol catalog")
	}
	groups, err := r.SelectGroups(reg)
	if err != nil {
		return ResolveResult{}, err
	}

	result := ResolveResult{
		Groups:  make([]types.ResolvedGroup, 0, len(groups)),
		Unknown: []types.UnknownReference{},
		Claimed: NewClaimed(),
	}

	var global *RemovalSet
	if r.Policy.RemovalScope() == types.RemovalScopeRegistry {
		removed := NewRemovalSet()
		for _, group := range groups {
			result.Unknown = append(result.Unknown, r.collectRemovals(group, removed)...)
		}
		global = &removed
		log.Ctx(ctx).Debug().Int("removed", removed.Len()).Msg("registry removal set computed")
	}

	for _, group := range groups {
		removed := NewRemovalSet()
		if global != nil {
			removed = *global
		} else {
			result.Unknown = append(result.Unknown, r.collectRemovals(group, removed)...)
		}
		resolution := r.ResolveGroup(group, result.Claimed, removed)
		result.Unknown = append(result.Unknown, resolution.Unknown...)
		result.Claimed = result.Claimed.With(resolution.Group)
		result.Groups = append(result.Groups, resolution.Group)
	}

	for _, ref := range result.Unknown {
		if r.Policy.Strict() {
			return ResolveResult{}, shared.UnknownSymbolReference(r.Catalog.Source(), ref)
		}
		log.Ctx(ctx).Warn().
			Str("registry", r.Catalog.Source()).
			Str("group", ref.Group).
			Str("kind", string(ref.Kind)).
			Str("symbol", ref.Name).
			Msg("skipping unknown symbol reference")
	}

	if err := VerifyPartition(result.Groups); err != nil {
		return ResolveResult{}, err
	}
	log.Ctx(ctx).Debug().
		Int("groups", len(result.Groups)).
		Int("types", result.Claimed.Types.Len()).
		Int("enums", result.Claimed.Enums.Len()).
		Int("commands", result.Claimed.Commands.Len()).
		Msg("resolver completed")
	return result, nil
}

// ResolveGroup computes the symbols group newly introduces given the names
// already claimed and the names it must not claim. claimed is not modified.
func (r Resolver) ResolveGroup(group types.GroupSpec, claimed Claimed, removed RemovalSet) GroupResolution {
	resolution := GroupResolution{
		Group: types.ResolvedGroup{Name: group.Name, Kind: group.Kind},
	}
	unknown := func(kind types.SymbolKind, name string) {
		resolution.Unknown = append(resolution.Unknown, types.UnknownReference{Group: group.Name, Kind: kind, Name: name})
	}

	explicitTypes := NewOrderedSet[string]()
	enums := NewOrderedSet[string]()
	commands := NewOrderedSet[string]()
	for _, clause := range group.Require {
		if !r.Policy.HonorsClause(clause) {
			continue
		}
		for _, name := range clause.Types {
			explicitTypes.Add(name)
		}
		for _, name := range clause.Enums {
			enums.Add(name)
		}
		for _, name := range clause.Commands {
			commands.Add(name)
		}
	}

	for _, name := range enums.Values() {
		if removed.has(types.SymbolKindEnum, name) || r.Policy.Excluded(policies.ExcludeScopeEnum, name) {
			continue
		}
		entry, ok := r.Catalog.LookupEnum(name)
		if !ok {
			unknown(types.SymbolKindEnum, name)
			continue
		}
		if claimed.Has(types.SymbolKindEnum, name) {
			continue
		}
		resolution.Group.Enums = append(resolution.Group.Enums, entry)
	}

	for _, name := range commands.Values() {
		if removed.has(types.SymbolKindCommand, name) || r.Policy.Excluded(policies.ExcludeScopeCommand, name) {
			continue
		}
		entry, ok := r.Catalog.LookupCommand(name)
		if !ok {
			unknown(types.SymbolKindCommand, name)
			continue
		}
		if claimed.Has(types.SymbolKindCommand, name) || r.Policy.ExcludedCommand(*entry) {
			continue
		}
		resolution.Group.Commands = append(resolution.Group.Commands, entry)
	}

	closure := typeClosure{
		resolver: r,
		claimed:  claimed,
		removed:  removed,
		visited:  map[string]struct{}{},
	}
	for _, name := range explicitTypes.Values() {
		if _, ok := r.Catalog.LookupType(name); !ok && !r.Policy.Excluded(policies.ExcludeScopeType, name) && !removed.has(types.SymbolKindType, name) {
			unknown(types.SymbolKindType, name)
			continue
		}
		closure.visit(name)
	}
	for _, command := range resolution.Group.Commands {
		closure.visit(command.ReturnRequires)
		for _, param := range command.Params {
			closure.visit(param.Requires)
		}
	}
	resolution.Group.Types = closure.ordered
	return resolution
}

// typeClosure walks Requires chains depth first so that every dependency is
// ordered before its dependents.
type typeClosure struct {
	resolver Resolver
	claimed  Claimed
	removed  RemovalSet
	visited  map[string]struct{}
	ordered  []*types.Type
}

func (c *typeClosure) visit(name string) {
	if name == "" {
		return
	}
	if _, seen := c.visited[name]; seen {
		return
	}
	c.visited[name] = struct{}{}
	if c.resolver.Policy.Excluded(policies.ExcludeScopeType, name) || c.removed.has(types.SymbolKindType, name) {
		return
	}
	entry, ok := c.resolver.Catalog.LookupType(name)
	if !ok {
		return
	}
	c.visit(entry.Requires)
	if entry.IsMarker() || c.claimed.Has(types.SymbolKindType, name) {
		return
	}
	c.ordered = append(c.ordered, entry)
}

func (r Resolver) collectRemovals(group types.GroupSpec, removed RemovalSet) []types.UnknownReference {
	var unknown []types.UnknownReference
	for _, clause := range group.Remove {
		if !r.Policy.HonorsClause(clause) {
			continue
		}
		for _, name := range clause.Types {
			if _, ok := r.Catalog.LookupType(name); !ok {
				unknown = append(unknown, types.UnknownReference{Group: group.Name, Kind: types.SymbolKindType, Name: name})
				continue
			}
			removed.Types[name] = struct{}{}
		}
		for _, name := range clause.Enums {
			if _, ok := r.Catalog.LookupEnum(name); !ok {
				unknown = append(unknown, types.UnknownReference{Group: group.Name, Kind: types.SymbolKindEnum, Name: name})
				continue
			}
			removed.Enums[name] = struct{}{}
		}
		for _, name := range clause.Commands {
			if _, ok := r.Catalog.LookupCommand(name); !ok {
				unknown = append(unknown, types.UnknownReference{Group: group.Name, Kind: types.SymbolKindCommand, Name: name})
				continue
			}
			removed.Commands[name] = struct{}{}
		}
	}
	return unknown
}

// VerifyPartition fails if any symbol is owned by more than one group.
func VerifyPartition(groups []types.ResolvedGroup) error {
	owners := map[types.SymbolKind]map[string]string{
		types.SymbolKindType:    {},
		types.SymbolKindEnum:    {},
		types.SymbolKindCommand: {},
	}
	check := func(kind types.SymbolKind, name string, group string) error {
		if first, ok := owners[kind][name]; ok {
			return shared.AmbiguousOwnership(kind, name, first, group)
		}
		owners[kind][name] = group
		return nil
	}
	for _, group := range groups {
		for _, entry := range group.Types {
			if err := check(types.SymbolKindType, entry.Name, group.Name); err != nil {
				return err
			}
		}
		for _, entry := range group.Enums {
			if err := check(types.SymbolKindEnum, entry.Name, group.Name); err != nil {
				return err
			}
		}
		for _, entry := range group.Commands {
			if err := check(types.SymbolKindCommand, entry.Name, group.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Report flattens the resolution into resolution.lock entries in resolver
// order.
func (res ResolveResult) Report(target string) types.ResolutionReport {
	report := types.ResolutionReport{
		Target:  target,
		Entries: []types.ResolutionEntry{},
		Unknown: append([]types.UnknownReference(nil), res.Unknown...),
	}
	for _, group := range res.Groups {
		add := func(kind types.SymbolKind, name string) {
			report.Entries = append(report.Entries, types.ResolutionEntry{
				GroupKind:  group.Kind,
				Group:      group.Name,
				SymbolKind: kind,
				Symbol:     name,
			})
		}
		for _, entry := range group.Types {
			add(types.SymbolKindType, entry.Name)
		}
		for _, entry := range group.Enums {
			add(types.SymbolKindEnum, entry.Name)
		}
		for _, entry := range group.Commands {
			add(types.SymbolKindCommand, entry.Name)
		}
	}
	return report
}

// Plan packages the resolution for the emission layer.
func (res ResolveResult) Plan(target string, source string) types.BindingPlan {
	plan := types.BindingPlan{
		Target:  target,
		Source:  source,
		Unknown: append([]types.UnknownReference(nil), res.Unknown...),
	}
	for _, group := range res.Groups {
		if group.Kind == types.GroupKindExtension {
			plan.Extensions = append(plan.Extensions, group)
			continue
		}
		plan.Features = append(plan.Features, group)
	}
	return plan
}
