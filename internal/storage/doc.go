// Package storage provides the BBolt manifest for fastmem storages.
//
// The manifest lives at <root>/.manifest and uses two buckets:
//   - config: storage ID, KDF iterations, lock flag, timestamps
//   - entries: key names, blob identifiers, ciphertext sizes
//
// Nothing in the manifest is encrypted and nothing in it is secret:
// values live only in blob files. Keeping this bookkeeping unencrypted
// lets fastmem status and fastmem ls work without a password, and lets
// the index lock flag survive across process runs.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
