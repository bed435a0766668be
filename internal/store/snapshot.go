package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/skleinke/upsbatch/internal/models"
)

// Snapshot is a full copy of all persisted collections, used as the
// pre-migration backup and for clear-all undo. Collection entries stay raw
// so a snapshot taken under an older schema restores byte-for-byte.
type Snapshot struct {
	TakenAt    time.Time         `json:"taken_at"`
	Shipments  []json.RawMessage `json:"shipments"`
	Activities []json.RawMessage `json:"activities"`
	Undo       []json.RawMessage `json:"undo_operations"`
	KV         map[string]string `json:"kv"`
}

// ExportSnapshot reads every collection into a snapshot.
func (s *Store) ExportSnapshot() (*Snapshot, error) {
	snap := &Snapshot{TakenAt: time.Now(), KV: make(map[string]string)}
	err := s.db.View(func(tx *bolt.Tx) error {
		collect := func(bucket []byte, out *[]json.RawMessage) error {
			return tx.Bucket(bucket).ForEach(func(_, v []byte) error {
				entry := make(json.RawMessage, len(v))
				copy(entry, v)
				*out = append(*out, entry)
				return nil
			})
		}
		if err := collect(bucketShipments, &snap.Shipments); err != nil {
			return err
		}
		if err := collect(bucketActivities, &snap.Activities); err != nil {
			return err
		}
		if err := collect(bucketUndo, &snap.Undo); err != nil {
			return err
		}
		return tx.Bucket(bucketKV).ForEach(func(k, v []byte) error {
			snap.KV[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// RestoreSnapshot replaces all collections with the snapshot contents.
func (s *Store) RestoreSnapshot(snap *Snapshot) error {
	return s.update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketShipments, bucketActivities, bucketUndo, bucketKV} {
			if err := tx.DeleteBucket(bucket); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}

		shipments := tx.Bucket(bucketShipments)
		for _, raw := range snap.Shipments {
			var meta struct {
				ID int `json:"id"`
			}
			if err := json.Unmarshal(raw, &meta); err != nil {
				return fmt.Errorf("restore shipment: %w", err)
			}
			if err := shipments.Put(shipmentKey(meta.ID), raw); err != nil {
				return err
			}
		}

		activities := tx.Bucket(bucketActivities)
		for _, raw := range snap.Activities {
			var meta struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(raw, &meta); err != nil {
				return fmt.Errorf("restore activity: %w", err)
			}
			if err := activities.Put([]byte(meta.ID), raw); err != nil {
				return err
			}
		}

		undo := tx.Bucket(bucketUndo)
		for _, raw := range snap.Undo {
			var meta struct {
				Timestamp time.Time `json:"timestamp"`
			}
			if err := json.Unmarshal(raw, &meta); err != nil {
				return fmt.Errorf("restore undo operation: %w", err)
			}
			if err := undo.Put(undoKey(meta.Timestamp), raw); err != nil {
				return err
			}
		}

		kv := tx.Bucket(bucketKV)
		for k, v := range snap.KV {
			if err := kv.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

// AppendMigrationRecord adds an entry to the persisted migration history.
func (s *Store) AppendMigrationRecord(rec *models.MigrationRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal migration record: %w", err)
	}
	return s.update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMigrations).Put([]byte(rec.ID), data)
	})
}

// MigrationHistory returns all recorded migrations, oldest first.
func (s *Store) MigrationHistory() ([]*models.MigrationRecord, error) {
	var records []*models.MigrationRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMigrations).ForEach(func(_, v []byte) error {
			var rec models.MigrationRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal migration record: %w", err)
			}
			records = append(records, &rec)
			return nil
		})
	})
	return records, err
}

// RawShipments returns the shipment collection as raw JSON blobs for the
// migrator, which transforms generic maps rather than typed records.
func (s *Store) RawShipments() ([]json.RawMessage, error) {
	var raws []json.RawMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketShipments).ForEach(func(_, v []byte) error {
			entry := make(json.RawMessage, len(v))
			copy(entry, v)
			raws = append(raws, entry)
			return nil
		})
	})
	return raws, err
}

// PutRawShipments replaces the shipment collection with migrated blobs.
func (s *Store) PutRawShipments(raws []json.RawMessage) error {
	return s.update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketShipments); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketShipments)
		if err != nil {
			return err
		}
		for _, raw := range raws {
			var meta struct {
				ID int `json:"id"`
			}
			if err := json.Unmarshal(raw, &meta); err != nil {
				return fmt.Errorf("put shipment blob: %w", err)
			}
			if err := b.Put(shipmentKey(meta.ID), raw); err != nil {
				return err
			}
		}
		return nil
	})
}
