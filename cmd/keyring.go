package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/fastmem/internal/keyring"
	"github.com/illarion/fastmem/internal/value"
	"github.com/illarion/fastmem/internal/vault"
)

// KeyringSave saves the storage password to the OS keyring
func KeyringSave(path string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	password, err := ReadPassword("Enter password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer vault.ClearBytes(password)

	if _, err := store.Vault.Unlock(password); err != nil {
		HandleError(err)
	}

	// Derivation cannot fail, so probe an existing key to catch a wrong
	// password before caching it. An empty storage has nothing to probe.
	if keys := store.Index.Keys(); len(keys) > 0 {
		if _, err := store.Index.Get(keys[0], value.Null()); err != nil {
			if errors.Is(err, vault.ErrAuthFailed) {
				fmt.Fprintf(os.Stderr, "Error: wrong password\n")
				os.Exit(1)
			}
			HandleError(err)
		}
	}

	storageID, err := store.Manifest.GetOrCreateStorageID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(storageID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the storage password from the OS keyring
func KeyringDelete(path string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	storageID, err := store.Manifest.GetStorageID()
	if err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(storageID); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password is stored in the keyring
func KeyringStatus(path string) {
	store := OpenStoreOrExit(path)
	defer store.Close()

	storageID, err := store.Manifest.GetStorageID()
	if err != nil {
		fmt.Println("Password: not stored")
		return
	}

	if keyring.HasPassword(storageID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
