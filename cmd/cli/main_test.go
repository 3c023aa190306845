package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ResolvesAndRendersYAML(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	config := `
default:
  port: 5432
  debug: true
production:
  debug: false
`
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0600))

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	// --- Act ---
	err := run(out, errOut, []string{"-e", "production", path})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "port: 5432")
	require.Contains(t, out.String(), "debug: false")
}

func TestRun_SingleKeyOutput(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("default:\n  db:\n    host: localhost\n"), 0600))

	out := &bytes.Buffer{}
	err := run(out, &bytes.Buffer{}, []string{"-key", "db.host", path})

	require.NoError(t, err)
	require.Contains(t, out.String(), "localhost")
}

func TestRun_FatalResolutionErrorSurfaces(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("a: [1, 2\n"), 0600))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{path})

	require.Error(t, err)
	require.Contains(t, err.Error(), "Failed to parse")
	require.Contains(t, err.Error(), path)
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return shouldExit=true.
	errOut := &bytes.Buffer{}
	err := run(&bytes.Buffer{}, errOut, []string{"-h"})

	require.NoError(t, err)
	require.Contains(t, errOut.String(), "Usage:")
}
