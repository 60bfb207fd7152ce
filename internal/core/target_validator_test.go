package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"glbindgen/internal/types"
)

func baseTarget() types.Target {
	return types.Target{
		Name:      "gl",
		Registry:  types.RegistrySource{Path: "gl.xml", Format: types.RegistryFormatXML},
		Selection: types.Selection{API: "gl", Profile: "core", Supported: "glcore"},
		Output: types.OutputConfig{
			Dir:          "out",
			Header:       "gl.hpp",
			Source:       "gl.cpp",
			Namespace:    "gl",
			InitFunction: "init",
		},
	}
}

func headerTarget() types.Target {
	target := baseTarget()
	target.Name = "wgl"
	target.Registry = types.RegistrySource{
		Path:   "wglext.h",
		Format: types.RegistryFormatHeader,
		Grammar: &types.HeaderGrammar{
			GroupPattern:  `(?s)#ifndef\s(\w+)\s#define\s(\w+)\s1\s(.*?)#endif`,
			TypePattern:   `(PFN\w+PROC)`,
			NamePattern:   `WINAPI\s(\w+)`,
			FeaturePrefix: "WGL_VERSION_",
		},
	}
	target.Selection = types.Selection{Supported: "wgl"}
	target.Output.Header = "wgl.hpp"
	target.Output.Source = "wgl.cpp"
	return target
}

func TestTargetValidatorValidateTargetCases(t *testing.T) {
	validator := NewTargetValidator()

	tests := []struct {
		name    string
		build   func() types.Target
		wantErr bool
	}{
		{name: "valid xml target", build: baseTarget},
		{name: "valid header target", build: headerTarget},
		{
			name: "missing name",
			build: func() types.Target {
				target := baseTarget()
				target.Name = " "
				return target
			},
			wantErr: true,
		},
		{
			name: "both path and url",
			build: func() types.Target {
				target := baseTarget()
				target.Registry.URL = "https://example.com/gl.xml"
				return target
			},
			wantErr: true,
		},
		{
			name: "non http url",
			build: func() types.Target {
				target := baseTarget()
				target.Registry = types.RegistrySource{URL: "ftp://example.com/gl.xml"}
				return target
			},
			wantErr: true,
		},
		{
			name: "unknown format",
			build: func() types.Target {
				target := baseTarget()
				target.Registry.Format = "json"
				return target
			},
			wantErr: true,
		},
		{
			name: "header without grammar",
			build: func() types.Target {
				target := headerTarget()
				target.Registry.Grammar = nil
				return target
			},
			wantErr: true,
		},
		{
			name: "grammar that does not compile",
			build: func() types.Target {
				target := headerTarget()
				target.Registry.Grammar.TypePattern = `(PFN`
				return target
			},
			wantErr: true,
		},
		{
			name: "group pattern without body capture",
			build: func() types.Target {
				target := headerTarget()
				target.Registry.Grammar.GroupPattern = `#ifndef\s(\w+)`
				return target
			},
			wantErr: true,
		},
		{
			name: "xml without api",
			build: func() types.Target {
				target := baseTarget()
				target.Selection.API = ""
				return target
			},
			wantErr: true,
		},
		{
			name: "invalid removal scope",
			build: func() types.Target {
				target := baseTarget()
				target.Selection.RemovalScope = "global"
				return target
			},
			wantErr: true,
		},
		{
			name: "nested namespace",
			build: func() types.Target {
				target := baseTarget()
				target.Output.Namespace = "glbind::gl"
				return target
			},
		},
		{
			name: "invalid namespace",
			build: func() types.Target {
				target := baseTarget()
				target.Output.Namespace = "gl-bind"
				return target
			},
			wantErr: true,
		},
		{
			name: "invalid init function",
			build: func() types.Target {
				target := baseTarget()
				target.Output.InitFunction = "1init"
				return target
			},
			wantErr: true,
		},
		{
			name: "header in subdirectory",
			build: func() types.Target {
				target := baseTarget()
				target.Output.Header = "include/gl.hpp"
				return target
			},
			wantErr: true,
		},
		{
			name: "header equals source",
			build: func() types.Target {
				target := baseTarget()
				target.Output.Source = target.Output.Header
				return target
			},
			wantErr: true,
		},
		{
			name: "missing output dir",
			build: func() types.Target {
				target := baseTarget()
				target.Output.Dir = ""
				return target
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTarget(t.Context(), tt.build())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTargetValidatorValidateTargets(t *testing.T) {
	validator := NewTargetValidator()

	require.NoError(t, validator.ValidateTargets(t.Context(), []types.Target{baseTarget(), headerTarget()}))
	require.Error(t, validator.ValidateTargets(t.Context(), nil))

	duplicate := baseTarget()
	duplicate.Output.Dir = "other"
	require.Error(t, validator.ValidateTargets(t.Context(), []types.Target{baseTarget(), duplicate}))

	clash := headerTarget()
	clash.Output.Header = "gl.hpp"
	require.Error(t, validator.ValidateTargets(t.Context(), []types.Target{baseTarget(), clash}))
}
