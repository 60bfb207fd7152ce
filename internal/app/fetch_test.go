package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchApp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/xml/gl.xml", "/xml/wgl.xml", "/other/glx.xml":
			_, _ = w.Write([]byte("<registry/>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	result, err := NewService().Fetch(t.Context(), FetchRequest{
		BaseURL:   server.URL + "/xml/",
		Names:     []string{"gl.xml", "wgl.xml"},
		URLs:      []string{server.URL + "/other/glx.xml"},
		OutputDir: dir,
	})
	require.NoError(t, err)
	want := []string{
		filepath.Join(dir, "glx.xml"),
		filepath.Join(dir, "gl.xml"),
		filepath.Join(dir, "wgl.xml"),
	}
	if diff := cmp.Diff(want, result.Files); diff != "" {
		t.Fatalf("unexpected files (-want +got):\n%s", diff)
	}
	assert.FileExists(t, filepath.Join(dir, "wgl.xml"))
}

func TestFetchRequiresInputs(t *testing.T) {
	_, err := NewService().Fetch(t.Context(), FetchRequest{OutputDir: t.TempDir()})
	require.Error(t, err)

	_, err = NewService().Fetch(t.Context(), FetchRequest{Names: []string{"gl.xml"}})
	require.Error(t, err)
}
