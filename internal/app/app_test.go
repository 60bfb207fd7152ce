package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// copyFixtures copies the shared registry fixtures into a temp dir so
// generated output never lands in the repository.
func copyFixtures(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	dir := t.TempDir()
	for _, name := range []string{"gl.xml", "wglext.h", "targets.yaml"} {
		content, err := os.ReadFile(filepath.Join(root, "fixtures", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0644))
	}
	return filepath.Join(dir, "targets.yaml")
}
