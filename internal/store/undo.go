package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/skleinke/upsbatch/internal/models"
)

// undoKey orders the undo stack chronologically in the bucket.
func undoKey(t time.Time) []byte {
	return []byte(fmt.Sprintf("%020d", t.UnixNano()))
}

// PushUndo records a reversible operation, purges expired entries, and
// enforces the retention cap.
func (s *Store) PushUndo(op *models.UndoOperation) error {
	if !models.KnownUndoAction(op.ActionType) {
		return fmt.Errorf("unknown undo action type: %s", op.ActionType)
	}
	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("marshal undo operation: %w", err)
	}
	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUndo)
		if err := b.Put(undoKey(op.Timestamp), data); err != nil {
			return err
		}
		if err := purgeExpiredUndo(b, time.Now()); err != nil {
			return err
		}
		return trimUndo(b, models.UndoRetention)
	})
}

// UndoOperations returns the stack newest-first, purging expired entries
// first.
func (s *Store) UndoOperations() ([]*models.UndoOperation, error) {
	if err := s.update(func(tx *bolt.Tx) error {
		return purgeExpiredUndo(tx.Bucket(bucketUndo), time.Now())
	}); err != nil {
		return nil, err
	}

	var ops []*models.UndoOperation
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketUndo).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var op models.UndoOperation
			if err := json.Unmarshal(v, &op); err != nil {
				return fmt.Errorf("unmarshal undo operation: %w", err)
			}
			ops = append(ops, &op)
		}
		return nil
	})
	return ops, err
}

// UndoByActivityID finds the undo operation linked to an activity entry;
// nil when none exists.
func (s *Store) UndoByActivityID(activityID string) (*models.UndoOperation, error) {
	var found *models.UndoOperation
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUndo).ForEach(func(_, v []byte) error {
			var op models.UndoOperation
			if err := json.Unmarshal(v, &op); err != nil {
				return fmt.Errorf("unmarshal undo operation: %w", err)
			}
			if op.ActivityID == activityID {
				found = &op
			}
			return nil
		})
	})
	return found, err
}

// MarkUndoUsed consumes an operation. Operations are single-use and never
// resurrected.
func (s *Store) MarkUndoUsed(id string) error {
	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUndo)
		var key []byte
		var op models.UndoOperation
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var cur models.UndoOperation
			if err := json.Unmarshal(v, &cur); err != nil {
				return fmt.Errorf("unmarshal undo operation: %w", err)
			}
			if cur.ID == id {
				key = make([]byte, len(k))
				copy(key, k)
				op = cur
				break
			}
		}
		if key == nil {
			return fmt.Errorf("undo operation not found: %s", id)
		}
		op.Used = true
		data, err := json.Marshal(&op)
		if err != nil {
			return fmt.Errorf("marshal undo operation: %w", err)
		}
		return b.Put(key, data)
	})
}

// ClearUndo empties the undo stack.
func (s *Store) ClearUndo() error {
	return s.update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketUndo); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketUndo)
		return err
	})
}

func purgeExpiredUndo(b *bolt.Bucket, now time.Time) error {
	var expired [][]byte
	err := b.ForEach(func(k, v []byte) error {
		var op models.UndoOperation
		if err := json.Unmarshal(v, &op); err != nil {
			return nil
		}
		if op.Expired(now) {
			key := make([]byte, len(k))
			copy(key, k)
			expired = append(expired, key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, k := range expired {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func trimUndo(b *bolt.Bucket, keep int) error {
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
