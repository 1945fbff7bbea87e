package keyring

import (
	"github.com/zalando/go-keyring"
)

const serviceName = "fastmem"

// SavePassword stores a storage password in the OS keyring
func SavePassword(storageID string, password string) error {
	return keyring.Set(serviceName, storageID, password)
}

// GetPassword retrieves a storage password from the OS keyring
func GetPassword(storageID string) (string, error) {
	return keyring.Get(serviceName, storageID)
}

// DeletePassword removes a storage password from the OS keyring
func DeletePassword(storageID string) error {
	return keyring.Delete(serviceName, storageID)
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(storageID string) bool {
	_, err := keyring.Get(serviceName, storageID)
	return err == nil
}
