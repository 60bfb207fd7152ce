// Package binding models the runtime side of generated bindings: a table of
// lazily resolved entry points with per-feature and per-extension support
// flags, initialized exactly once.
package binding

import (
	"context"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"glbindgen/internal/types"
)

// Address is a resolved entry point. Zero means unresolved.
type Address uintptr

// Resolver maps an exported symbol name to its address.
type Resolver func(name string) Address

// Hooks surround the extension initializers. A Setup error aborts
// initialization after the features, leaving every extension unresolved.
type Hooks struct {
	Setup    func(ctx context.Context) error
	Teardown func(ctx context.Context)
}

// GroupStatus is the outcome of one group's initializer.
type GroupStatus struct {
	Kind      types.GroupKind
	Name      string
	Supported bool
	Missing   []string
	Resolved  int
}

type Table struct {
	mu         sync.Mutex
	done       bool
	initErr    error
	features   []types.GroupCommands
	extensions []types.GroupCommands
	slots      map[string]Address
	support    map[types.GroupKind]map[string]bool
	statuses   []GroupStatus
}

// NewTable creates an uninitialized table. Every slot starts unresolved and
// every support flag starts false.
func NewTable(groups []types.GroupCommands) *Table {
	table := &Table{
		slots: map[string]Address{},
		support: map[types.GroupKind]map[string]bool{
			types.GroupKindFeature:   {},
			types.GroupKindExtension: {},
		},
	}
	for _, group := range groups {
		switch group.Kind {
		case types.GroupKindFeature:
			table.features = append(table.features, group)
		case types.GroupKindExtension:
			table.extensions = append(table.extensions, group)
		}
		table.support[group.Kind][group.Name] = false
		for _, name := range group.Commands {
			table.slots[name] = 0
		}
	}
	return table
}

// GroupsFromPlan lists the groups of a plan that get an initializer.
func GroupsFromPlan(plan types.BindingPlan, skipEmpty bool) []types.GroupCommands {
	var groups []types.GroupCommands
	for _, resolved := range append(append([]types.ResolvedGroup{}, plan.Features...), plan.Extensions...) {
		if skipEmpty && len(resolved.Commands) == 0 {
			continue
		}
		groups = append(groups, types.GroupCommands{
			Kind:     resolved.Kind,
			Name:     resolved.Name,
			Commands: resolved.CommandNames(),
		})
	}
	return groups
}

// Init resolves every slot once. Later and concurrent calls wait for the
// first to finish and return its result.
func (t *Table) Init(ctx context.Context, resolve Resolver, hooks Hooks) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return t.initErr
	}
	t.done = true
	if resolve == nil {
		t.initErr = errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver is required")
		return t.initErr
	}

	for _, group := range t.features {
		t.initGroup(group, resolve)
	}
	if hooks.Setup != nil {
		if err := hooks.Setup(ctx); err != nil {
			t.initErr = errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("binding setup failed").
				WithCause(err)
			log.Ctx(ctx).Debug().Err(err).Int("extensions", len(t.extensions)).Msg("binding setup failed, extensions left unresolved")
			return t.initErr
		}
	}
	for _, group := range t.extensions {
		t.initGroup(group, resolve)
	}
	if hooks.Teardown != nil {
		hooks.Teardown(ctx)
	}
	log.Ctx(ctx).Debug().
		Int("features", len(t.features)).
		Int("extensions", len(t.extensions)).
		Int("slots", len(t.slots)).
		Msg("binding table initialized")
	return nil
}

func (t *Table) initGroup(group types.GroupCommands, resolve Resolver) {
	status := GroupStatus{Kind: group.Kind, Name: group.Name}
	for _, name := range group.Commands {
		address := resolve(name)
		t.slots[name] = address
		if address == 0 {
			status.Missing = append(status.Missing, name)
			continue
		}
		status.Resolved++
	}
	status.Supported = len(status.Missing) == 0
	t.support[group.Kind][group.Name] = status.Supported
	t.statuses = append(t.statuses, status)
}

func (t *Table) Address(name string) (Address, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	address, ok := t.slots[name]
	return address, ok && address != 0
}

func (t *Table) FeatureSupported(name string) bool {
	return t.supported(types.GroupKindFeature, name)
}

func (t *Table) ExtensionSupported(name string) bool {
	return t.supported(types.GroupKindExtension, name)
}

func (t *Table) supported(kind types.GroupKind, name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.support[kind][name]
}

// Statuses returns the per-group outcome in initialization order. Groups
// that were never initialized are absent.
func (t *Table) Statuses() []GroupStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]GroupStatus(nil), t.statuses...)
}

// SymbolResolver resolves names from a fixed symbol list. Addresses are the
// 1-based position of the name in the list.
func SymbolResolver(symbols []string) Resolver {
	index := make(map[string]Address, len(symbols))
	for i, name := range symbols {
		if _, ok := index[name]; !ok {
			index[name] = Address(i + 1)
		}
	}
	return func(name string) Address {
		return index[name]
	}
}
