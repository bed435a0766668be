package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/skleinke/upsbatch/internal/models"
)

// userKey is the single profile slot; the tool tracks one local identity.
var userKey = []byte("current")

// CurrentUser returns the stored profile, or nil when none exists or it has
// expired through inactivity. Expired profiles are removed.
func (s *Store) CurrentUser() (*models.UserProfile, error) {
	var profile *models.UserProfile
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketUsers).Get(userKey)
		if v == nil {
			return nil
		}
		profile = &models.UserProfile{}
		return json.Unmarshal(v, profile)
	})
	if err != nil || profile == nil {
		return nil, err
	}

	if profile.Expired(time.Now()) {
		if err := s.DeleteUser(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return profile, nil
}

// SaveUser writes the profile.
func (s *Store) SaveUser(profile *models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal user profile: %w", err)
	}
	return s.update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUsers).Put(userKey, data)
	})
}

// TouchUser refreshes the inactivity clock; a no-op when no profile exists.
func (s *Store) TouchUser() error {
	profile, err := s.CurrentUser()
	if err != nil || profile == nil {
		return err
	}
	profile.LastActive = time.Now()
	return s.SaveUser(profile)
}

// DeleteUser removes the profile.
func (s *Store) DeleteUser() error {
	return s.update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUsers).Delete(userKey)
	})
}
