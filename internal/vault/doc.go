// Package vault provides password-based encryption for fastmem storages.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from password via PBKDF2
//   - 12-byte random nonce per encryption operation
//   - Tokens encoded base64 URL-safe for text storage
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 16-byte random salt persisted to <root>/.salt
//   - 480,000 iterations, deliberately slow to resist brute force
//
// Unlock always succeeds when a salt exists: derivation cannot fail, so a
// wrong password is only detected when a later Decrypt reports
// ErrAuthFailed. This is expected behavior, not a bug.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Vault.Destroy() when done to clear the derived key
package vault
