package core

import (
	"github.com/skleinke/upsbatch/internal/config"
	"github.com/skleinke/upsbatch/internal/models"
	"github.com/skleinke/upsbatch/internal/store"
)

// EnsureUser returns the current user name for activity tagging. An expired
// or missing profile is recreated from the configured name; the inactivity
// clock is refreshed on every call. Returns "" when no name is configured:
// identity is optional, it only tags activities.
func EnsureUser(cfg *config.Config, st *store.Store) (string, error) {
	profile, err := st.CurrentUser()
	if err != nil {
		return "", err
	}

	if profile == nil {
		if cfg.UserName == "" {
			return "", nil
		}
		profile = models.NewUserProfile(cfg.UserName)
		if err := st.SaveUser(profile); err != nil {
			return "", err
		}
		return profile.Name, nil
	}

	if err := st.TouchUser(); err != nil {
		return "", err
	}
	return profile.Name, nil
}
