package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/illarion/fastmem/internal/security"
	"github.com/illarion/fastmem/internal/storage"
	"github.com/illarion/fastmem/internal/vault"
)

// Init creates a new named storage under path and sets its password
func Init(name, path string) {
	root, err := filepath.Abs(filepath.Join(path, name))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if _, err := os.Stat(filepath.Join(root, vault.SaltFile)); err == nil {
		fmt.Fprintf(os.Stderr, "Error: storage already initialized at %s\n", root)
		fmt.Fprintf(os.Stderr, "Use 'fastmem status %s' to see its state\n", root)
		os.Exit(1)
	}

	password, err := GetPasswordForInit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer vault.ClearBytes(password)

	guard, err := security.Open(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer guard.Close()

	v := vault.New(root)
	defer v.Destroy()
	if err := v.Initialize(password); err != nil {
		HandleError(err)
	}

	manifest, err := storage.Open(filepath.Join(root, storage.ManifestFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer manifest.Close()

	if err := manifest.Initialize(); err != nil {
		HandleError(err)
	}
	if err := manifest.SetIterations(vault.Iterations); err != nil {
		HandleError(err)
	}
	if _, err := manifest.GetOrCreateStorageID(); err != nil {
		HandleError(err)
	}

	fmt.Printf("Initialized new storage at %s\n", root)
}
