// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// CopyFixtures copies the registry fixtures into a fresh temp dir and
// returns the path of the copied targets file.
func CopyFixtures(t *testing.T) string {
	t.Helper()
	root := RepoRoot(t)
	dir := t.TempDir()
	for _, name := range []string{"gl.xml", "wglext.h", "targets.yaml"} {
		content, err := os.ReadFile(filepath.Join(root, "fixtures", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0o644))
	}
	return filepath.Join(dir, "targets.yaml")
}
