package core

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skleinke/upsbatch/internal/store"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "2.0", -1},
		{"2.0", "1.0", 1},
		{"2.2", "2.2", 0},
		{"2.2", "2.10", -1},
		{"2", "2.0", 0},
		{"2.0.1", "2.0", 1},
		{"10.0", "9.9", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestCheckVersions_UninitializedStampsCurrent(t *testing.T) {
	cfg, st := newTestEnv(t)

	plan, err := CheckVersions(cfg, st)
	require.NoError(t, err)
	assert.Equal(t, StateUninitialized, plan.State)

	version, err := st.GetValue(store.KeyDataVersion)
	require.NoError(t, err)
	assert.Equal(t, CurrentDataVersion, version)

	app, err := st.GetValue(store.KeyAppVersion)
	require.NoError(t, err)
	assert.Equal(t, CurrentAppVersion, app)
}

func TestCheckVersions_UpToDateIsNoOp(t *testing.T) {
	cfg, st := newTestEnv(t)

	_, err := CheckVersions(cfg, st)
	require.NoError(t, err)

	plan, err := CheckVersions(cfg, st)
	require.NoError(t, err)
	assert.Equal(t, StateUpToDate, plan.State)
	assert.Empty(t, plan.Steps)

	_, err = RunMigration(cfg, st, plan)
	require.Error(t, err, "nothing to migrate on a current store")
}

func TestCheckVersions_AppVersionBumpedSilently(t *testing.T) {
	cfg, st := newTestEnv(t)

	require.NoError(t, st.SetValue(store.KeyDataVersion, CurrentDataVersion))
	require.NoError(t, st.SetValue(store.KeyAppVersion, "2.2.0"))

	plan, err := CheckVersions(cfg, st)
	require.NoError(t, err)
	assert.Equal(t, StateUpToDate, plan.State)

	app, err := st.GetValue(store.KeyAppVersion)
	require.NoError(t, err)
	assert.Equal(t, CurrentAppVersion, app)
}

func TestCheckVersions_Downgrade(t *testing.T) {
	cfg, st := newTestEnv(t)

	require.NoError(t, st.SetValue(store.KeyDataVersion, "9.0"))

	plan, err := CheckVersions(cfg, st)
	require.NoError(t, err)
	assert.Equal(t, StateDowngradeDetected, plan.State)

	// newer data is never touched
	version, err := st.GetValue(store.KeyDataVersion)
	require.NoError(t, err)
	assert.Equal(t, "9.0", version)
}

func legacyShipment(t *testing.T, st *store.Store) {
	t.Helper()
	raw := json.RawMessage(`{"id":1,"company_name":"Acme","address1":"Main St 1","city":"Berlin","country":"DE","postal_code":"10115","weight":5,"unit":"KG"}`)
	require.NoError(t, st.PutRawShipments([]json.RawMessage{raw}))
}

func TestRunMigration_FullChain(t *testing.T) {
	cfg, st := newTestEnv(t)

	require.NoError(t, st.SetValue(store.KeyDataVersion, "1.0"))
	legacyShipment(t, st)

	plan, err := CheckVersions(cfg, st)
	require.NoError(t, err)
	require.Equal(t, StateUpgradeRequired, plan.State)
	require.Len(t, plan.Steps, 3)

	record, err := RunMigration(cfg, st, plan)
	require.NoError(t, err)
	assert.True(t, record.Success)
	assert.Equal(t, "1.0", record.FromVersion)
	assert.Equal(t, CurrentDataVersion, record.ToVersion)

	_, err = os.Stat(record.BackupFile)
	require.NoError(t, err, "backup written before the first step")

	version, err := st.GetValue(store.KeyDataVersion)
	require.NoError(t, err)
	assert.Equal(t, CurrentDataVersion, version)

	// every additive step filled its defaults
	raws, err := st.RawShipments()
	require.NoError(t, err)
	require.Len(t, raws, 1)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raws[0], &m))
	assert.Equal(t, "Acme", m["company_name"])
	for _, key := range []string{
		"delivery_confirmation", "shipper_release",
		"premium_care", "lithium_ion_alone",
		"reference2", "residential", "email",
	} {
		_, ok := m[key]
		assert.True(t, ok, "missing default for %s", key)
	}

	unit, err := st.GetValue("default_unit")
	require.NoError(t, err)
	assert.Equal(t, "KG", unit)

	history, err := st.MigrationHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
}

func TestRunMigration_StepFailureRestoresBackup(t *testing.T) {
	cfg, st := newTestEnv(t)

	require.NoError(t, st.SetValue(store.KeyDataVersion, "1.0"))
	legacyShipment(t, st)

	plan := &Plan{
		State:             StateUpgradeRequired,
		StoredDataVersion: "1.0",
		Steps: []Step{
			{From: "1.0", To: "2.0", Apply: migrate10to20},
			{From: "2.0", To: "2.2", Apply: func(*Blob) error { return errors.New("kaboom") }},
		},
	}

	record, err := RunMigration(cfg, st, plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	require.NotNil(t, record)
	assert.False(t, record.Success)

	// the pre-migration snapshot is restored wholesale
	version, err := st.GetValue(store.KeyDataVersion)
	require.NoError(t, err)
	assert.Equal(t, "1.0", version)

	raws, err := st.RawShipments()
	require.NoError(t, err)
	require.Len(t, raws, 1)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raws[0], &m))
	_, touched := m["shipper_release"]
	assert.False(t, touched, "partial step results are rolled back")

	history, err := st.MigrationHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
}

func TestFreshStart(t *testing.T) {
	cfg, st := newTestEnv(t)

	require.NoError(t, st.SetValue(store.KeyDataVersion, "1.0"))
	legacyShipment(t, st)

	backupPath, err := FreshStart(cfg, st, true)
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)
	_, err = os.Stat(backupPath)
	require.NoError(t, err)

	count, err := st.CountShipments()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	version, err := st.GetValue(store.KeyDataVersion)
	require.NoError(t, err)
	assert.Equal(t, CurrentDataVersion, version)

	ops, err := st.UndoOperations()
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestFreshStart_WithoutBackup(t *testing.T) {
	cfg, st := newTestEnv(t)

	backupPath, err := FreshStart(cfg, st, false)
	require.NoError(t, err)
	assert.Empty(t, backupPath)
}
