package app

import (
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glbindgen/internal/types"
)

func TestInspectApp(t *testing.T) {
	targetsPath := copyFixtures(t)
	service := NewService()
	_, err := service.Generate(t.Context(), GenerateRequest{
		TargetOptions: TargetOptions{TargetsPath: targetsPath, Names: []string{"gl"}},
	})
	require.NoError(t, err)

	result, err := service.Inspect(InspectRequest{OutputDir: filepath.Join(filepath.Dir(targetsPath), "out", "gl")})
	require.NoError(t, err)
	assert.Equal(t, 26, result.Entries)

	// Groups without claims never appear in resolution.lock.
	want := glGroupSummaries()[:4]
	if diff := cmp.Diff(want, result.Groups); diff != "" {
		t.Fatalf("unexpected groups (-want +got):\n%s", diff)
	}
	wantUnknown := []types.UnknownReference{
		{Group: "GL_EXT_missing", Kind: types.SymbolKindEnum, Name: "GL_MISSING_ENUM"},
	}
	if diff := cmp.Diff(wantUnknown, result.Unknown); diff != "" {
		t.Fatalf("unexpected unknown references (-want +got):\n%s", diff)
	}
}

func TestInspectMissingOutput(t *testing.T) {
	service := NewService()
	_, err := service.Inspect(InspectRequest{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = service.Inspect(InspectRequest{OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
