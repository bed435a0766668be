package store

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/skleinke/upsbatch/internal/models"
)

// AppendActivity records a log entry and drops the oldest entries beyond the
// retention cap.
func (s *Store) AppendActivity(a *models.ActivityRecord) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketActivities)
		if err := b.Put([]byte(a.ID), data); err != nil {
			return err
		}
		return trimActivities(tx, models.ActivityRetention)
	})
}

// Activities returns the log newest-first.
func (s *Store) Activities() ([]*models.ActivityRecord, error) {
	var activities []*models.ActivityRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketActivities).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var a models.ActivityRecord
			if err := json.Unmarshal(v, &a); err != nil {
				return fmt.Errorf("unmarshal activity: %w", err)
			}
			activities = append(activities, &a)
		}
		return nil
	})
	return activities, err
}

// ClearActivities empties the log.
func (s *Store) ClearActivities() error {
	return s.update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketActivities); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketActivities)
		return err
	})
}

// trimActivities deletes the oldest entries until at most keep remain.
// Activity ids are timestamp-based, so bucket order is chronological.
// Counting walks the cursor because bucket stats lag pending writes inside
// an open transaction.
func trimActivities(tx *bolt.Tx, keep int) error {
	b := tx.Bucket(bucketActivities)
	count := 0
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		count++
	}
	excess := count - keep
	if excess <= 0 {
		return nil
	}

	var oldest [][]byte
	for k, _ := c.First(); k != nil && len(oldest) < excess; k, _ = c.Next() {
		key := make([]byte, len(k))
		copy(key, k)
		oldest = append(oldest, key)
	}
	for _, k := range oldest {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
