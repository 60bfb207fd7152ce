package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glbindgen/internal/adapters"
	"glbindgen/internal/shared"
	"glbindgen/internal/types"
)

func glGroupSummaries() []GroupSummary {
	return []GroupSummary{
		{Kind: types.GroupKindFeature, Name: "GL_VERSION_1_0", Types: 4, Enums: 5, Commands: 4},
		{Kind: types.GroupKindFeature, Name: "GL_VERSION_1_1", Enums: 2},
		{Kind: types.GroupKindFeature, Name: "GL_VERSION_3_2", Types: 1, Enums: 2, Commands: 1},
		{Kind: types.GroupKindExtension, Name: "GL_ARB_sync", Types: 3, Enums: 2, Commands: 2},
		{Kind: types.GroupKindExtension, Name: "GL_EXT_missing"},
	}
}

func TestResolveApp(t *testing.T) {
	service := NewService()
	result, err := service.Resolve(t.Context(), ResolveRequest{
		TargetOptions: TargetOptions{TargetsPath: copyFixtures(t), Names: []string{"gl"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Targets, 1)

	gl := result.Targets[0]
	assert.Equal(t, "gl", gl.Name)
	if diff := cmp.Diff(glGroupSummaries(), gl.Groups); diff != "" {
		t.Fatalf("unexpected groups (-want +got):\n%s", diff)
	}
	wantUnknown := []types.UnknownReference{
		{Group: "GL_EXT_missing", Kind: types.SymbolKindEnum, Name: "GL_MISSING_ENUM"},
	}
	if diff := cmp.Diff(wantUnknown, gl.Unknown); diff != "" {
		t.Fatalf("unexpected unknown references (-want +got):\n%s", diff)
	}
	assert.Empty(t, gl.Files)
}

func TestResolveWritesReports(t *testing.T) {
	targetsPath := copyFixtures(t)
	result, err := NewService().Resolve(t.Context(), ResolveRequest{
		TargetOptions: TargetOptions{TargetsPath: targetsPath, Names: []string{"gl"}},
		WriteReports:  true,
	})
	require.NoError(t, err)

	outDir := filepath.Join(filepath.Dir(targetsPath), "out", "gl")
	want := []string{
		filepath.Join(outDir, adapters.ResolutionLockFile),
		filepath.Join(outDir, adapters.UnknownReportFile),
	}
	if diff := cmp.Diff(want, result.Targets[0].Files); diff != "" {
		t.Fatalf("unexpected files (-want +got):\n%s", diff)
	}
	_, err = os.Stat(filepath.Join(outDir, "gl.hpp"))
	assert.True(t, os.IsNotExist(err))
}

func TestResolveStrictFailsOnUnknownReference(t *testing.T) {
	_, err := NewService().Resolve(t.Context(), ResolveRequest{
		TargetOptions: TargetOptions{TargetsPath: copyFixtures(t), Names: []string{"gl"}, Strict: true},
	})
	require.Error(t, err)
	assert.True(t, shared.IsUnknownSymbolReference(err))
	assert.Contains(t, err.Error(), "GL_MISSING_ENUM")
}

func TestResolveUnknownTarget(t *testing.T) {
	_, err := NewService().Resolve(t.Context(), ResolveRequest{
		TargetOptions: TargetOptions{TargetsPath: copyFixtures(t), Names: []string{"egl"}},
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestResolveHeaderTarget(t *testing.T) {
	result, err := NewService().Resolve(t.Context(), ResolveRequest{
		TargetOptions: TargetOptions{TargetsPath: copyFixtures(t), Names: []string{"wgl"}},
	})
	require.NoError(t, err)

	want := []GroupSummary{
		{Kind: types.GroupKindFeature, Name: "WGL_VERSION_1_0"},
		{Kind: types.GroupKindExtension, Name: "WGL_ARB_extensions_string", Commands: 1},
		{Kind: types.GroupKindExtension, Name: "WGL_ARB_pixel_format", Commands: 1},
		{Kind: types.GroupKindExtension, Name: "WGL_ARB_pixel_format_float"},
		{Kind: types.GroupKindExtension, Name: "WGL_EXT_swap_control", Commands: 2},
	}
	if diff := cmp.Diff(want, result.Targets[0].Groups); diff != "" {
		t.Fatalf("unexpected groups (-want +got):\n%s", diff)
	}
}

func TestResolveFetchesURLRegistryOnce(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	registry, err := os.ReadFile(filepath.Join(root, "fixtures", "gl.xml"))
	require.NoError(t, err)

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write(registry)
	}))
	defer server.Close()

	dir := t.TempDir()
	targetsPath := filepath.Join(dir, "targets.yaml")
	content := "version: 1\ntargets:\n" +
		"  - name: remote\n" +
		"    registry: {url: \"" + server.URL + "/xml/gl.xml\"}\n" +
		"    selection: {api: gl, supported: glcore}\n" +
		"    output: {dir: out, namespace: gl}\n"
	require.NoError(t, os.WriteFile(targetsPath, []byte(content), 0644))

	req := ResolveRequest{TargetOptions: TargetOptions{TargetsPath: targetsPath, CacheDir: filepath.Join(dir, "cache")}}
	service := NewService()
	_, err = service.Resolve(t.Context(), req)
	require.NoError(t, err)
	_, err = service.Resolve(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())
	assert.FileExists(t, filepath.Join(dir, "cache", "remote", "gl.xml"))

	req.Refresh = true
	_, err = service.Resolve(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())
}
