package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glbindgen/internal/shared"
	"glbindgen/internal/types"
)

const testHeaderGroupPattern = `(?s)#ifndef\s(\w+)\s#define\s(\w+)\s1\s(.*?)#endif\s/\*\s(\w+)\s\*/`

const testWGLHeader = `#ifndef __wglext_h_
#define __wglext_h_ 1

#ifndef WGL_VERSION_1_0
#define WGL_VERSION_1_0 1
typedef HGLRC (WINAPI * PFNWGLCREATECONTEXTPROC) (HDC hDc);
#ifdef WGL_WGLEXT_PROTOTYPES
HGLRC WINAPI wglCreateContext (HDC hDc);
#endif
#endif /* WGL_VERSION_1_0 */

#ifndef WGL_ARB_extensions_string
#define WGL_ARB_extensions_string 1
typedef const char *(WINAPI * PFNWGLGETEXTENSIONSSTRINGARBPROC) (HDC hdc);
#ifdef WGL_WGLEXT_PROTOTYPES
const char *WINAPI wglGetExtensionsStringARB (HDC hdc);
#endif
#endif /* WGL_ARB_extensions_string */

#ifndef WGL_ARB_pixel_format_float
#define WGL_ARB_pixel_format_float 1
#define WGL_TYPE_RGBA_FLOAT_ARB           0x21A0
#endif /* WGL_ARB_pixel_format_float */

#ifndef WGL_EXT_extensions_string
#define WGL_EXT_extensions_string 1
typedef const char *(WINAPI * PFNWGLGETEXTENSIONSSTRINGARBPROC) (HDC hdc);
#ifdef WGL_WGLEXT_PROTOTYPES
const char *WINAPI wglGetExtensionsStringARB (HDC hdc);
#endif
#endif /* WGL_EXT_extensions_string */

#endif
`

func wglTarget() types.Target {
	return types.Target{
		Name: "wgl",
		Registry: types.RegistrySource{
			Format: types.RegistryFormatHeader,
			Grammar: &types.HeaderGrammar{
				GroupPattern:  testHeaderGroupPattern,
				TypePattern:   `typedef.*\(\s?WINAPI\s?\*\s?(PFN\w+PROC)\).*;`,
				NamePattern:   `WINAPI\s?(wgl\w+)\s?\(.*;`,
				FeaturePrefix: "WGL_VERSION_",
			},
		},
		Selection: types.Selection{Supported: "wgl"},
	}
}

func TestHeaderRegistryAdapterParsesGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wglext.h")
	require.NoError(t, os.WriteFile(path, []byte(testWGLHeader), 0644))

	reg, err := NewHeaderRegistryAdapter().LoadRegistry(t.Context(), path, wglTarget())
	require.NoError(t, err)

	wantCommands := []types.Command{
		{Name: "wglCreateContext", PointerType: "PFNWGLCREATECONTEXTPROC"},
		{Name: "wglGetExtensionsStringARB", PointerType: "PFNWGLGETEXTENSIONSSTRINGARBPROC"},
	}
	if diff := cmp.Diff(wantCommands, reg.Commands); diff != "" {
		t.Fatalf("unexpected commands (-want +got):\n%s", diff)
	}

	require.Len(t, reg.Features, 1)
	assert.Equal(t, types.GroupSpec{
		Kind:    types.GroupKindFeature,
		Name:    "WGL_VERSION_1_0",
		Number:  "1.0",
		Require: []types.Clause{{Commands: []string{"wglCreateContext"}}},
	}, reg.Features[0])

	var names []string
	for _, extension := range reg.Extensions {
		names = append(names, extension.Name)
		assert.Equal(t, []string{"wgl"}, extension.Supported)
	}
	assert.Equal(t, []string{"WGL_ARB_extensions_string", "WGL_ARB_pixel_format_float", "WGL_EXT_extensions_string"}, names)
	assert.True(t, reg.Extensions[1].Require[0].IsEmpty())
	assert.Equal(t, []string{"wglGetExtensionsStringARB"}, reg.Extensions[2].Require[0].Commands)
}

func TestHeaderRegistryAdapterRejectsMismatchedGroups(t *testing.T) {
	content := `#ifndef WGL_BROKEN
#define WGL_BROKEN 1
typedef BOOL (WINAPI * PFNWGLONEPROC) (void);
typedef BOOL (WINAPI * PFNWGLTWOPROC) (void);
BOOL WINAPI wglOne (void);
#endif /* WGL_BROKEN */
`
	_, err := NewHeaderRegistryAdapter().ParseHeader("wglext.h", content, wglTarget())
	require.Error(t, err)
	assert.True(t, shared.IsMalformedRegistry(err))
	assert.Contains(t, err.Error(), "WGL_BROKEN")
}

func TestHeaderRegistryAdapterRequiresGrammar(t *testing.T) {
	target := wglTarget()
	target.Registry.Grammar = nil
	_, err := NewHeaderRegistryAdapter().ParseHeader("wglext.h", "", target)
	require.Error(t, err)

	target = wglTarget()
	target.Registry.Grammar.NamePattern = `wgl\w+`
	_, err = NewHeaderRegistryAdapter().ParseHeader("wglext.h", "", target)
	require.Error(t, err)
}
