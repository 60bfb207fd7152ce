package binding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glbindgen/internal/types"
)

func testGroups() []types.GroupCommands {
	return []types.GroupCommands{
		{Kind: types.GroupKindExtension, Name: "GL_EXT_a", Commands: []string{"glBar"}},
		{Kind: types.GroupKindFeature, Name: "GL_VERSION_1_0", Commands: []string{"glDo", "glClear"}},
		{Kind: types.GroupKindFeature, Name: "GL_VERSION_1_1", Commands: []string{"glMissing"}},
	}
}

func TestTableInitResolvesGroups(t *testing.T) {
	table := NewTable(testGroups())
	require.NoError(t, table.Init(t.Context(), SymbolResolver([]string{"glDo", "glClear", "glBar"}), Hooks{}))

	assert.True(t, table.FeatureSupported("GL_VERSION_1_0"))
	assert.False(t, table.FeatureSupported("GL_VERSION_1_1"))
	assert.True(t, table.ExtensionSupported("GL_EXT_a"))
	assert.False(t, table.ExtensionSupported("GL_VERSION_1_0"))

	address, ok := table.Address("glClear")
	assert.True(t, ok)
	assert.Equal(t, Address(2), address)
	_, ok = table.Address("glMissing")
	assert.False(t, ok)

	want := []GroupStatus{
		{Kind: types.GroupKindFeature, Name: "GL_VERSION_1_0", Supported: true, Resolved: 2},
		{Kind: types.GroupKindFeature, Name: "GL_VERSION_1_1", Missing: []string{"glMissing"}},
		{Kind: types.GroupKindExtension, Name: "GL_EXT_a", Supported: true, Resolved: 1},
	}
	if diff := cmp.Diff(want, table.Statuses()); diff != "" {
		t.Fatalf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestTableInitRunsOnce(t *testing.T) {
	table := NewTable(testGroups())
	var calls atomic.Int32
	resolve := func(name string) Address {
		calls.Add(1)
		return 1
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, table.Init(context.Background(), resolve, Hooks{}))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(4), calls.Load())
	assert.True(t, table.FeatureSupported("GL_VERSION_1_1"))
}

func TestTableSetupFailureLeavesExtensionsUnresolved(t *testing.T) {
	table := NewTable(testGroups())
	var resolved []string
	teardown := false
	err := table.Init(t.Context(), func(name string) Address {
		resolved = append(resolved, name)
		return 1
	}, Hooks{
		Setup:    func(context.Context) error { return errors.New("no context") },
		Teardown: func(context.Context) { teardown = true },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding setup failed")

	assert.Equal(t, []string{"glDo", "glClear", "glMissing"}, resolved)
	assert.False(t, teardown)
	assert.True(t, table.FeatureSupported("GL_VERSION_1_0"))
	assert.False(t, table.ExtensionSupported("GL_EXT_a"))
	_, ok := table.Address("glBar")
	assert.False(t, ok)

	want := []GroupStatus{
		{Kind: types.GroupKindFeature, Name: "GL_VERSION_1_0", Supported: true, Resolved: 2},
		{Kind: types.GroupKindFeature, Name: "GL_VERSION_1_1", Supported: true, Resolved: 1},
	}
	if diff := cmp.Diff(want, table.Statuses()); diff != "" {
		t.Fatalf("statuses mismatch (-want +got):\n%s", diff)
	}

	second := table.Init(t.Context(), SymbolResolver([]string{"glBar"}), Hooks{})
	assert.Equal(t, err, second)
	assert.False(t, table.ExtensionSupported("GL_EXT_a"))
}

func TestTableHooksSurroundInitialization(t *testing.T) {
	var order []string
	table := NewTable(testGroups())
	err := table.Init(t.Context(), func(name string) Address {
		order = append(order, name)
		return 1
	}, Hooks{
		Setup:    func(context.Context) error { order = append(order, "setup"); return nil },
		Teardown: func(context.Context) { order = append(order, "teardown") },
	})
	require.NoError(t, err)

	want := []string{"glDo", "glClear", "glMissing", "setup", "glBar", "teardown"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestTableRequiresResolver(t *testing.T) {
	err := NewTable(testGroups()).Init(t.Context(), nil, Hooks{})
	require.Error(t, err)
}

func TestGroupsFromPlan(t *testing.T) {
	plan := types.BindingPlan{
		Features: []types.ResolvedGroup{
			{Name: "V1_0", Kind: types.GroupKindFeature, Commands: []*types.Command{{Name: "glDo"}}},
			{Name: "V1_1", Kind: types.GroupKindFeature, Enums: []*types.Enum{{Name: "GL_TWO"}}},
		},
		Extensions: []types.ResolvedGroup{
			{Name: "EXT_A", Kind: types.GroupKindExtension, Commands: []*types.Command{{Name: "glBar"}}},
		},
	}

	skipped := GroupsFromPlan(plan, true)
	want := []types.GroupCommands{
		{Kind: types.GroupKindFeature, Name: "V1_0", Commands: []string{"glDo"}},
		{Kind: types.GroupKindExtension, Name: "EXT_A", Commands: []string{"glBar"}},
	}
	if diff := cmp.Diff(want, skipped); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, GroupsFromPlan(plan, false), 3)
}
