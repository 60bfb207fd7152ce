package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glbindgen/internal/adapters"
	"glbindgen/internal/types"
)

type fakeFormatter struct {
	calls int
}

func (f *fakeFormatter) Format(_ context.Context, paths []string) error {
	f.calls++
	return nil
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestGenerateApp(t *testing.T) {
	targetsPath := copyFixtures(t)
	base := filepath.Dir(targetsPath)

	result, err := NewService().Generate(t.Context(), GenerateRequest{
		TargetOptions: TargetOptions{TargetsPath: targetsPath},
		Jobs:          2,
	})
	require.NoError(t, err)
	require.Len(t, result.Targets, 2)
	assert.Empty(t, result.Hints)

	gl := result.Targets[0]
	glDir := filepath.Join(base, "out", "gl")
	want := GeneratedTarget{
		Name: "gl",
		Dir:  glDir,
		Files: []string{
			filepath.Join(glDir, "gl.cpp"),
			filepath.Join(glDir, "gl.hpp"),
			filepath.Join(glDir, adapters.ResolutionLockFile),
			filepath.Join(glDir, adapters.UnknownReportFile),
		},
		Groups:  5,
		Unknown: 1,
	}
	if diff := cmp.Diff(want, gl); diff != "" {
		t.Fatalf("unexpected gl target (-want +got):\n%s", diff)
	}

	header := readFile(t, filepath.Join(glDir, "gl.hpp"))
	assert.Contains(t, header, "enum class Feature\n{\n    gl_version_1_0,\n    gl_version_3_2,\n};")
	assert.Contains(t, header, "enum class Extension\n{\n    gl_arb_sync,\n};")
	assert.Contains(t, header, "constexpr int GL_RENDERER = 0x1F01;")
	assert.Contains(t, header, "constexpr unsigned long long GL_TIMEOUT_IGNORED = 0xFFFFFFFFFFFFFFFF;")
	assert.Contains(t, header, "const GLubyte * glGetString(GLenum name);")
	assert.NotContains(t, header, "glDeprecated")
	assert.NotContains(t, header, "glSpecializeShader")

	source := readFile(t, filepath.Join(glDir, "gl.cpp"))
	assert.Contains(t, source, "#include <glbind/gl.hpp>")
	assert.Contains(t, source, "GLboolean glIsTexture(GLuint texture)\n{\n    return glIsTexture_ptr(texture);\n}")

	wglDir := filepath.Join(base, "out", "wgl")
	wglSource := readFile(t, filepath.Join(wglDir, "wgl.cpp"))
	assert.Contains(t, wglSource, "PFNWGLSWAPINTERVALEXTPROC wglSwapIntervalEXT = nullptr;")
	assert.Contains(t, wglSource, "    if (!create_dummy_context())\n    {\n        return;\n    }\n")
	assert.Contains(t, wglSource, "void init_wgl(const GetFunction& get_function)")
	assert.NotContains(t, wglSource, "wglCreateContext")
	wglHeader := readFile(t, filepath.Join(wglDir, "wgl.hpp"))
	assert.Contains(t, wglHeader, "#ifndef GLBIND_WGL_WGL_HPP")
	assert.Contains(t, wglHeader, "extern PFNWGLGETSWAPINTERVALEXTPROC wglGetSwapIntervalEXT;")
}

func TestGenerateIsReproducible(t *testing.T) {
	targetsPath := copyFixtures(t)
	glDir := filepath.Join(filepath.Dir(targetsPath), "out", "gl")
	service := NewService()
	req := GenerateRequest{TargetOptions: TargetOptions{TargetsPath: targetsPath, Names: []string{"gl"}}}

	_, err := service.Generate(t.Context(), req)
	require.NoError(t, err)
	first := map[string]string{}
	for _, name := range []string{"gl.hpp", "gl.cpp", adapters.ResolutionLockFile} {
		first[name] = readFile(t, filepath.Join(glDir, name))
	}

	_, err = service.Generate(t.Context(), req)
	require.NoError(t, err)
	for name, content := range first {
		if diff := cmp.Diff(content, readFile(t, filepath.Join(glDir, name))); diff != "" {
			t.Fatalf("%s changed between runs (-want +got):\n%s", name, diff)
		}
	}
}

func TestGenerateFormatsWhenRequested(t *testing.T) {
	formatter := &fakeFormatter{}
	service := NewService()
	service.Formatter = formatter

	result, err := service.Generate(t.Context(), GenerateRequest{
		TargetOptions: TargetOptions{TargetsPath: copyFixtures(t), Strict: false},
		Format:        true,
		Jobs:          1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, formatter.calls)
	assert.Empty(t, result.Hints)
}

func TestGenerateFailureLeavesNoOutput(t *testing.T) {
	targetsPath := copyFixtures(t)
	_, err := NewService().Generate(t.Context(), GenerateRequest{
		TargetOptions: TargetOptions{TargetsPath: targetsPath, Names: []string{"gl"}, Strict: true},
	})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(targetsPath), "out", "gl"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCheckTargetHints(t *testing.T) {
	targets := []types.Target{
		{Name: "a", Selection: types.Selection{Strict: true}, Output: types.OutputConfig{Format: true}},
		{Name: "b", Selection: types.Selection{Strict: true}},
	}
	hints := checkTargetHints(TargetOptions{Strict: true}, true, targets)
	want := []string{
		"hint: --strict is also set for every selected target (selection.strict); you can omit the flag",
	}
	if diff := cmp.Diff(want, hints); diff != "" {
		t.Fatalf("unexpected hints (-want +got):\n%s", diff)
	}
	assert.Empty(t, checkTargetHints(TargetOptions{}, false, targets))
}
