// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"path/filepath"
)

// Canonical returns the cleaned absolute form of path. Canonical paths are
// the identity used for circular-reference detection, so two spellings of
// the same file compare equal.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// CanonicalJoin resolves ref against baseDir and canonicalizes the result.
// An absolute ref ignores baseDir.
func CanonicalJoin(baseDir, ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Clean(filepath.Join(baseDir, ref))
}

// DefaultConfigFile searches dir for the conventional configuration file
// names and returns the first regular file found.
func DefaultConfigFile(dir string) (string, bool) {
	for _, name := range []string{"config.yml", "config.yaml"} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}
