package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// ManifestFile is the manifest database name under the storage root.
const ManifestFile = ".manifest"

// Bucket names
var (
	ConfigBucket  = []byte("config")  // storage ID, KDF iterations, lock flag, timestamps
	EntriesBucket = []byte("entries") // per-key bookkeeping for status/ls
)

// Config keys
var (
	ConfigVersion   = []byte("version")
	ConfigCreated   = []byte("created")
	ConfigModified  = []byte("modified")
	ConfigIters     = []byte("iterations")
	ConfigStorageID = []byte("storage_id")
	ConfigLocked    = []byte("locked")
)

// Manifest provides BBolt-based bookkeeping for a fastmem storage. It
// holds no secrets and no ciphertext: only key names, blob identifiers,
// sizes and timestamps, so status and ls work without a password. Key
// names already appear in plaintext snapshots, so nothing new leaks.
type Manifest struct {
	db *bolt.DB
}

// Open opens or creates a manifest database
func Open(path string) (*Manifest, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}

	return &Manifest{db: db}, nil
}

// Close closes the database
func (m *Manifest) Close() error {
	return m.db.Close()
}

// Initialize creates the bucket structure for a new storage
func (m *Manifest) Initialize() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, EntriesBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		now := time.Now()
		created, _ := now.MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the manifest has been initialized
func (m *Manifest) IsInitialized() (bool, error) {
	var initialized bool
	err := m.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// SetIterations stores the KDF iteration count
func (m *Manifest) SetIterations(iterations uint32) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		iters := make([]byte, 4)
		binary.BigEndian.PutUint32(iters, iterations)
		return config.Put(ConfigIters, iters)
	})
}

// GetIterations retrieves the KDF iteration count
func (m *Manifest) GetIterations() (uint32, error) {
	var iterations uint32
	err := m.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		iters := config.Get(ConfigIters)
		if iters == nil || len(iters) != 4 {
			return fmt.Errorf("iterations not found")
		}
		iterations = binary.BigEndian.Uint32(iters)
		return nil
	})
	return iterations, err
}

// SetLocked persists the index lock flag
func (m *Manifest) SetLocked(locked bool) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if locked {
			return config.Put(ConfigLocked, []byte("1"))
		}
		return config.Delete(ConfigLocked)
	})
}

// GetLocked retrieves the persisted index lock flag; absent means unlocked
func (m *Manifest) GetLocked() (bool, error) {
	var locked bool
	err := m.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return nil
		}
		locked = config.Get(ConfigLocked) != nil
		return nil
	})
	return locked, err
}

// UpdateModified updates the last modified timestamp
func (m *Manifest) UpdateModified() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		now := time.Now()
		modified, _ := now.MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
}

// GetModified retrieves the last modified timestamp
func (m *Manifest) GetModified() (time.Time, error) {
	var modified time.Time
	err := m.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// GetStorageID retrieves the storage ID from the config bucket
func (m *Manifest) GetStorageID() (string, error) {
	var storageID string
	err := m.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigStorageID)
		if data == nil {
			return fmt.Errorf("storage_id not found")
		}
		storageID = string(data)
		return nil
	})
	return storageID, err
}

// GetOrCreateStorageID retrieves the existing storage ID or generates one
func (m *Manifest) GetOrCreateStorageID() (string, error) {
	storageID, err := m.GetStorageID()
	if err == nil {
		return storageID, nil
	}

	storageID = uuid.NewString()
	err = m.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		return config.Put(ConfigStorageID, []byte(storageID))
	})
	if err != nil {
		return "", err
	}

	return storageID, nil
}

// Entry is the bookkeeping record for one stored key
type Entry struct {
	Key      string    `json:"key"`
	Blob     string    `json:"blob"`
	Size     int64     `json:"size"` // ciphertext size in bytes
	Modified time.Time `json:"modified"`
}

// PutEntry adds or replaces a key's bookkeeping record
func (m *Manifest) PutEntry(entry Entry) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return entries.Put([]byte(entry.Key), data)
	})
}

// RemoveEntry removes a key's bookkeeping record
func (m *Manifest) RemoveEntry(key string) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		entries := tx.Bucket(EntriesBucket)
		return entries.Delete([]byte(key))
	})
}

// ClearEntries removes all bookkeeping records
func (m *Manifest) ClearEntries() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(EntriesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(EntriesBucket)
		return err
	})
}

// Entries returns all bookkeeping records
func (m *Manifest) Entries() ([]Entry, error) {
	var entries []Entry
	err := m.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(EntriesBucket)
		if bucket == nil {
			return fmt.Errorf("entries bucket not found")
		}
		return bucket.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	})
	return entries, err
}

// GetEntry returns a single bookkeeping record, or nil if absent
func (m *Manifest) GetEntry(key string) (*Entry, error) {
	var entry *Entry
	err := m.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(EntriesBucket)
		if bucket == nil {
			return fmt.Errorf("entries bucket not found")
		}
		data := bucket.Get([]byte(key))
		if data == nil {
			return nil
		}
		entry = &Entry{}
		return json.Unmarshal(data, entry)
	})
	return entry, err
}
