package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/skleinke/upsbatch/internal/models"
)

// shipmentKey builds the bbolt key for a shipment id. Zero-padding keeps the
// bucket ordered by id.
func shipmentKey(id int) []byte {
	return []byte(fmt.Sprintf("%010d", id))
}

// NextShipmentID returns the next id and advances the counter. Ids are
// strictly increasing and never reused, even after deletes.
func (s *Store) NextShipmentID() (int, error) {
	var id int
	err := s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCounters)
		next := 1
		if v := b.Get(counterNextShipmentID); v != nil {
			n, err := strconv.Atoi(string(v))
			if err != nil {
				return fmt.Errorf("parse shipment counter: %w", err)
			}
			next = n
		}
		id = next
		return b.Put(counterNextShipmentID, []byte(strconv.Itoa(next+1)))
	})
	return id, err
}

// SaveShipment writes a shipment under its id.
func (s *Store) SaveShipment(rec *models.ShipmentRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal shipment: %w", err)
	}
	return s.update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketShipments).Put(shipmentKey(rec.ID), data)
	})
}

// GetShipment retrieves a shipment by id; nil when not found.
func (s *Store) GetShipment(id int) (*models.ShipmentRecord, error) {
	var rec *models.ShipmentRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketShipments).Get(shipmentKey(id))
		if v == nil {
			return nil
		}
		rec = &models.ShipmentRecord{}
		return json.Unmarshal(v, rec)
	})
	return rec, err
}

// AllShipments returns every shipment ordered by id.
func (s *Store) AllShipments() ([]*models.ShipmentRecord, error) {
	var shipments []*models.ShipmentRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketShipments).ForEach(func(_, v []byte) error {
			var rec models.ShipmentRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshal shipment: %w", err)
			}
			shipments = append(shipments, &rec)
			return nil
		})
	})
	return shipments, err
}

// CountShipments returns the number of stored shipments.
func (s *Store) CountShipments() (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketShipments).Stats().KeyN
		return nil
	})
	return count, err
}

// DeleteShipment removes a shipment by id and reports whether one existed.
func (s *Store) DeleteShipment(id int) (bool, error) {
	var existed bool
	err := s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketShipments)
		key := shipmentKey(id)
		if b.Get(key) == nil {
			return nil
		}
		existed = true
		return b.Delete(key)
	})
	return existed, err
}

// DeleteShipments removes a batch of ids and returns how many existed.
func (s *Store) DeleteShipments(ids []int) (int, error) {
	var count int
	err := s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketShipments)
		for _, id := range ids {
			key := shipmentKey(id)
			if b.Get(key) == nil {
				continue
			}
			if err := b.Delete(key); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

// ClearShipments removes all shipments. The id counter is left untouched so
// ids are never reused.
func (s *Store) ClearShipments() error {
	return s.update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketShipments); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketShipments)
		return err
	})
}

// RestoreShipments re-inserts shipments under their original ids, used by
// undo and backup restoration.
func (s *Store) RestoreShipments(shipments []*models.ShipmentRecord) error {
	return s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketShipments)
		for _, rec := range shipments {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshal shipment: %w", err)
			}
			if err := b.Put(shipmentKey(rec.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// dropShipmentsOlderThan is part of the cleanup pass that runs before a
// failed write is retried.
func dropShipmentsOlderThan(tx *bolt.Tx, cutoff time.Time) error {
	b := tx.Bucket(bucketShipments)
	var stale [][]byte
	err := b.ForEach(func(k, v []byte) error {
		var meta struct {
			CreatedAt time.Time `json:"created_at"`
		}
		if err := json.Unmarshal(v, &meta); err != nil {
			return nil
		}
		if meta.CreatedAt.Before(cutoff) {
			key := make([]byte, len(k))
			copy(key, k)
			stale = append(stale, key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
