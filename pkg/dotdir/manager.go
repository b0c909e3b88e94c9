// Package dotdir resolves the .pairwise/ directory holding config.toml.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the pairwise directory.
	dirName = ".pairwise"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .pairwise/ directory.
// Order of precedence is as follows:
//  1. Provided override (created if missing)
//  2. Local ./.pairwise/ dir
//  3. Home ~/.pairwise/ dir
//
// If none of these exist, Target returns "" and callers fall back to defaults.
func (m *Manager) Target(overrideDir string) (string, error) {
	if overrideDir != "" {
		return m.create(overrideDir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	if local := filepath.Join(cwd, dirName); isDir(local) {
		return local, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// no home (e.g. in a minimal container) is not an error
		return "", nil
	}
	if global := filepath.Join(home, dirName); isDir(global) {
		return global, nil
	}

	return "", nil
}

// Init creates and returns a .pairwise/ directory: the override if given,
// otherwise ./.pairwise in the current working directory.
func (m *Manager) Init(overrideDir string) (string, error) {
	if overrideDir != "" {
		return m.create(overrideDir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return m.create(filepath.Join(cwd, dirName))
}

func (m *Manager) create(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating pairwise directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
