package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidName = errors.New("invalid file name")
	ErrEmptyName   = errors.New("empty file name not allowed")
)

const DirPermSecure = 0700

// RootGuard confines file operations to a single storage root directory
// using Go's os.Root API. Blob and snapshot names are validated before
// any filesystem access, so a tampered index or snapshot cannot reach
// files outside the storage root.
type RootGuard struct {
	root *os.Root
	path string
}

// Open creates the storage root directory if needed and returns a guard
// confined to it.
func Open(path string) (*RootGuard, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, DirPermSecure); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage root: %w", err)
	}

	return &RootGuard{root: root, path: absPath}, nil
}

// Close releases resources held by the guard.
func (g *RootGuard) Close() error {
	if g.root != nil {
		return g.root.Close()
	}
	return nil
}

// Path returns the absolute storage root path.
func (g *RootGuard) Path() string {
	return g.path
}

// ValidateName checks that name is a single local path element: no
// separators, no traversal, no reserved names. Storage files (blobs,
// snapshots, the salt) live directly under the root, so anything else
// indicates tampering.
func (g *RootGuard) ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	// filepath.IsLocal rejects "", ".", "..", absolute paths and
	// Windows reserved names (Go 1.20+)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, name)
	}
	return nil
}

// ReadFile reads a file directly under the storage root.
func (g *RootGuard) ReadFile(name string) ([]byte, error) {
	if err := g.ValidateName(name); err != nil {
		return nil, err
	}
	return g.root.ReadFile(name)
}

// WriteFileAtomic writes a file under the storage root via a temporary
// file and rename. Direct overwrite is not crash-safe.
func (g *RootGuard) WriteFileAtomic(name string, data []byte, perm os.FileMode) error {
	if err := g.ValidateName(name); err != nil {
		return err
	}

	tmp := name + ".tmp"
	if err := g.root.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := g.root.Rename(tmp, name); err != nil {
		g.root.Remove(tmp)
		return err
	}
	return nil
}

// Remove removes a file under the storage root.
func (g *RootGuard) Remove(name string) error {
	if err := g.ValidateName(name); err != nil {
		return err
	}
	return g.root.Remove(name)
}

// Stat stats a file under the storage root.
func (g *RootGuard) Stat(name string) (os.FileInfo, error) {
	if err := g.ValidateName(name); err != nil {
		return nil, err
	}
	return g.root.Stat(name)
}
