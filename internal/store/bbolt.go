// Package store provides bbolt-based persistence for the UPS batch manager.
// It manages shipments, the activity log, the undo stack, user identity, and
// schema-version state using a single embedded bbolt database file.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Bucket names used by the store.
var (
	bucketShipments  = []byte("shipments")
	bucketActivities = []byte("activities")
	bucketUndo       = []byte("undo_operations")
	bucketUsers      = []byte("users")
	bucketKV         = []byte("kv")
	bucketCounters   = []byte("counters")
	bucketMigrations = []byte("migration_history")
)

// Counter key names.
var counterNextShipmentID = []byte("next_shipment_id")

// KV keys for schema-version state.
const (
	KeyDataVersion = "data_version"
	KeyAppVersion  = "app_version"
)

// cleanupActivityKeep is how many activity entries survive the best-effort
// cleanup that runs before a failed write is retried.
const cleanupActivityKeep = 25

// cleanupShipmentAge is the age past which shipments are dropped by the
// cleanup pass.
const cleanupShipmentAge = 365 * 24 * time.Hour

// Store represents the bbolt database store.
type Store struct {
	db  *bolt.DB
	log *zap.Logger
}

// New opens or creates a bbolt database at the given path.
func New(dbPath string, log *zap.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}, nil
}

// Initialize creates all buckets.
func (s *Store) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketShipments, bucketActivities, bucketUndo,
			bucketUsers, bucketKV, bucketCounters, bucketMigrations,
		}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// GetValue reads a scalar from the kv bucket; missing keys return "".
func (s *Store) GetValue(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketKV).Get([]byte(key)); v != nil {
			value = string(v)
		}
		return nil
	})
	return value, err
}

// SetValue writes a scalar to the kv bucket.
func (s *Store) SetValue(key, value string) error {
	return s.update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Put([]byte(key), []byte(value))
	})
}

// AllValues returns a copy of the kv bucket.
func (s *Store) AllValues() (map[string]string, error) {
	values := make(map[string]string)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).ForEach(func(k, v []byte) error {
			values[string(k)] = string(v)
			return nil
		})
	})
	return values, err
}

// update runs a write transaction. When the commit fails, a best-effort
// cleanup (trim the activity log, drop year-old shipments) runs and the
// write is retried exactly once; a second failure is returned to the caller
// and the in-memory state stays the source of truth until the next
// successful write. Errors returned by the closure itself are deterministic
// and are returned as-is; cleanup cannot change their outcome.
func (s *Store) update(fn func(tx *bolt.Tx) error) error {
	var fnErr error
	err := s.db.Update(func(tx *bolt.Tx) error {
		fnErr = fn(tx)
		return fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr != nil {
		return fnErr
	}

	s.log.Warn("store write failed, running cleanup and retrying", zap.Error(err))
	if cleanupErr := s.cleanup(); cleanupErr != nil {
		s.log.Warn("store cleanup failed", zap.Error(cleanupErr))
	}

	if retryErr := s.db.Update(fn); retryErr != nil {
		return fmt.Errorf("speichern fehlgeschlagen: %w", retryErr)
	}
	return nil
}

// cleanup frees space: the activity log is trimmed hard and shipments older
// than one year are dropped.
func (s *Store) cleanup() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := trimActivities(tx, cleanupActivityKeep); err != nil {
			return err
		}
		return dropShipmentsOlderThan(tx, time.Now().Add(-cleanupShipmentAge))
	})
}
