// Package index provides the key-value index over encrypted blob files.
//
// Each Set encrypts one serialized value through the vault and writes it
// to a fresh, randomly named blob file under the storage root; the index
// maps logical keys to those blob file names. Blobs are never edited in
// place: overwriting a key writes a new blob and deletes the old one.
//
// The index state (mapping + lock flag) can be saved to and loaded from
// named .state snapshot files as plaintext JSON; snapshots are
// independent of blob contents and do not validate that referenced
// blobs still exist.
//
// The lock flag blocks Set, Delete, Clear, Save and Load. Get is never
// blocked by it.
package index
