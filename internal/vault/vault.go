package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltFile   = ".salt" // Salt file name under the storage root
	SaltSize   = 16      // Salt size in bytes
	KeySize    = 32      // AES-256 key size
	NonceSize  = 12      // GCM nonce size
	TagSize    = 16      // GCM authentication tag size
	Iterations = 480000  // PBKDF2 iterations

	FilePermSecure = 0600
)

var (
	ErrNotInitialized = errors.New("no password set for this storage")
	ErrLocked         = errors.New("storage is locked")
	ErrAuthFailed     = errors.New("authentication failed")
	ErrInvalidToken   = errors.New("invalid ciphertext token")
)

// Vault derives an encryption key from a password and a persisted salt,
// and performs authenticated encryption over byte payloads.
//
// The derived key lives only in memory. The salt at <root>/.salt is the
// only persisted derivation material; its absence means no password has
// ever been set.
type Vault struct {
	saltPath string
	key      []byte // nil while locked
}

// New creates a Vault for the given storage root. The vault starts locked.
func New(root string) *Vault {
	return &Vault{
		saltPath: filepath.Join(root, SaltFile),
	}
}

// Initialize generates a fresh random salt, persists it, and derives the
// key from the password. Overwrites any previous salt for this storage
// root, which invalidates blobs encrypted under a prior password.
func (v *Vault) Initialize(password []byte) error {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	if err := writeFileAtomic(v.saltPath, salt, FilePermSecure); err != nil {
		return fmt.Errorf("failed to persist salt: %w", err)
	}

	v.setKey(deriveKey(password, salt))
	return nil
}

// Unlock reads the persisted salt and re-derives the key. The returned
// bool only reflects that a salt existed; derivation itself cannot fail.
// A wrong password is detected later, when Decrypt reports ErrAuthFailed.
func (v *Vault) Unlock(password []byte) (bool, error) {
	salt, err := os.ReadFile(v.saltPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, ErrNotInitialized
		}
		return false, fmt.Errorf("failed to read salt: %w", err)
	}

	v.setKey(deriveKey(password, salt))
	return true, nil
}

// Locked reports whether no derived key is held.
func (v *Vault) Locked() bool {
	return v.key == nil
}

// Encrypt produces an authenticated token (nonce || AES-256-GCM
// ciphertext, base64 URL-encoded) over the plaintext.
func (v *Vault) Encrypt(plaintext []byte) (string, error) {
	if v.key == nil {
		return "", ErrLocked
	}

	gcm, err := newGCM(v.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	raw := make([]byte, NonceSize+len(ciphertext))
	copy(raw, nonce)
	copy(raw[NonceSize:], ciphertext)

	return base64.URLEncoding.EncodeToString(raw), nil
}

// Decrypt verifies and decrypts a token produced by Encrypt. Returns
// ErrAuthFailed when the integrity check fails (wrong key, corrupted
// data or tampering).
func (v *Vault) Decrypt(token string) ([]byte, error) {
	if v.key == nil {
		return nil, ErrLocked
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if len(raw) < NonceSize+TagSize {
		return nil, ErrInvalidToken
	}

	gcm, err := newGCM(v.key)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, raw[:NonceSize], raw[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}

// Destroy clears the derived key from memory and returns the vault to
// the locked state.
func (v *Vault) Destroy() {
	ClearBytes(v.key)
	v.key = nil
}

func (v *Vault) setKey(key []byte) {
	if v.key != nil {
		ClearBytes(v.key)
	}
	v.key = key
}

func deriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place. Direct overwrite is not crash-safe.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
