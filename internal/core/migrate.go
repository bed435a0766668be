package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/skleinke/upsbatch/internal/config"
	"github.com/skleinke/upsbatch/internal/models"
	"github.com/skleinke/upsbatch/internal/store"
)

// Current schema and application versions. The data version only moves when
// the persisted shipment shape changes; the app version moves every release.
const (
	CurrentDataVersion = "2.2"
	CurrentAppVersion  = "2.2.1"
)

// VersionState classifies the stored data version against the current one.
type VersionState string

const (
	StateUpToDate          VersionState = "up-to-date"
	StateUpgradeRequired   VersionState = "upgrade-required"
	StateDowngradeDetected VersionState = "downgrade-detected"
	StateUninitialized     VersionState = "uninitialized"
)

// Blob is the generic view of the persisted collections that migration
// steps transform. Steps are additive only: they fill new fields with
// defaults and never delete keys they don't understand, which keeps forward
// migrations safe to re-run.
type Blob struct {
	Shipments []map[string]any
	KV        map[string]string
}

// Step is one version-to-version transformation in the linear chain.
type Step struct {
	From, To string
	Apply    func(*Blob) error
}

// chain is the ordered version history. Appending here is how a new schema
// version ships.
var chain = []Step{
	{From: "1.0", To: "2.0", Apply: migrate10to20},
	{From: "2.0", To: "2.1", Apply: migrate20to21},
	{From: "2.1", To: "2.2", Apply: migrate21to22},
}

// Plan is the outcome of the startup version check. The CLI resolves it:
// upgrade-required suspends until the user picks migrate, fresh start, or
// backup-then-retry.
type Plan struct {
	State             VersionState
	StoredDataVersion string
	StoredAppVersion  string
	Steps             []Step
}

// CompareVersions compares dot-separated numeric versions segment by
// segment; missing segments count as 0. Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// CheckVersions reads the stored version state and computes what startup has
// to do. Uninitialized stores are stamped with the current versions right
// away; an app-version-only difference is bumped silently. Data upgrades
// and downgrades are only reported; the caller owns the user choice.
func CheckVersions(cfg *config.Config, st *store.Store) (*Plan, error) {
	stored, err := st.GetValue(store.KeyDataVersion)
	if err != nil {
		return nil, err
	}
	storedApp, err := st.GetValue(store.KeyAppVersion)
	if err != nil {
		return nil, err
	}

	plan := &Plan{StoredDataVersion: stored, StoredAppVersion: storedApp}

	if stored == "" {
		plan.State = StateUninitialized
		if err := st.SetValue(store.KeyDataVersion, CurrentDataVersion); err != nil {
			return nil, err
		}
		if err := st.SetValue(store.KeyAppVersion, CurrentAppVersion); err != nil {
			return nil, err
		}
		if _, err := logActivity(cfg, st, models.ActivityMigration,
			fmt.Sprintf("Datenbestand mit Version %s initialisiert", CurrentDataVersion)); err != nil {
			return nil, err
		}
		return plan, nil
	}

	switch CompareVersions(stored, CurrentDataVersion) {
	case -1:
		plan.State = StateUpgradeRequired
		plan.Steps = stepPath(stored, CurrentDataVersion)
		if plan.Steps == nil {
			return nil, fmt.Errorf("no migration path from %s to %s", stored, CurrentDataVersion)
		}
	case 1:
		// Never read newer data forward-compatibly; the user must reset.
		plan.State = StateDowngradeDetected
	default:
		plan.State = StateUpToDate
		if storedApp != CurrentAppVersion {
			if err := st.SetValue(store.KeyAppVersion, CurrentAppVersion); err != nil {
				return nil, err
			}
			if _, err := logActivity(cfg, st, models.ActivityMigration,
				fmt.Sprintf("Anwendungsversion auf %s aktualisiert", CurrentAppVersion)); err != nil {
				return nil, err
			}
		}
	}
	return plan, nil
}

// stepPath returns the linear slice of the chain between two versions, or
// nil when either endpoint is unknown.
func stepPath(from, to string) []Step {
	start := -1
	for i, s := range chain {
		if s.From == from {
			start = i
			break
		}
	}
	if start == -1 {
		return nil
	}
	for i := start; i < len(chain); i++ {
		if chain[i].To == to {
			return chain[start : i+1]
		}
	}
	return nil
}

// RunMigration executes the plan's steps over a snapshot of the persisted
// collections. A backup is written before the first step; any step failure
// aborts the rest, restores the backup, and records the failure. The
// migration is all-or-nothing from the caller's perspective.
func RunMigration(cfg *config.Config, st *store.Store, plan *Plan) (*models.MigrationRecord, error) {
	if plan.State != StateUpgradeRequired || len(plan.Steps) == 0 {
		return nil, fmt.Errorf("nothing to migrate")
	}

	stepNames := make([]string, len(plan.Steps))
	for i, s := range plan.Steps {
		stepNames[i] = s.From + "→" + s.To
	}
	record := models.NewMigrationRecord(plan.StoredDataVersion, CurrentDataVersion, stepNames)

	snap, err := st.ExportSnapshot()
	if err != nil {
		return nil, err
	}
	backupPath, err := writeBackup(cfg, snap, plan.StoredDataVersion)
	if err != nil {
		return nil, err
	}
	record.BackupFile = backupPath

	blob, err := blobFromSnapshot(snap)
	if err != nil {
		return nil, err
	}

	for _, step := range plan.Steps {
		if err := step.Apply(blob); err != nil {
			restoreErr := st.RestoreSnapshot(snap)
			record.Success = false
			record.Error = err.Error()
			_ = st.AppendMigrationRecord(record)
			_, _ = logActivity(cfg, st, models.ActivityMigration,
				fmt.Sprintf("Migration %s fehlgeschlagen, Sicherung wiederhergestellt", record.ID))
			if restoreErr != nil {
				return record, fmt.Errorf("migration step %s→%s failed (%v) and restore failed: %w",
					step.From, step.To, err, restoreErr)
			}
			return record, fmt.Errorf("migration step %s→%s failed: %w", step.From, step.To, err)
		}
	}

	raws := make([]json.RawMessage, len(blob.Shipments))
	for i, m := range blob.Shipments {
		raw, err := json.Marshal(m)
		if err != nil {
			return record, fmt.Errorf("marshal migrated shipment: %w", err)
		}
		raws[i] = raw
	}
	if err := st.PutRawShipments(raws); err != nil {
		return record, err
	}
	for k, v := range blob.KV {
		if err := st.SetValue(k, v); err != nil {
			return record, err
		}
	}

	if err := st.SetValue(store.KeyDataVersion, CurrentDataVersion); err != nil {
		return record, err
	}
	if err := st.SetValue(store.KeyAppVersion, CurrentAppVersion); err != nil {
		return record, err
	}

	record.Success = true
	if err := st.AppendMigrationRecord(record); err != nil {
		return record, err
	}
	_, err = logActivity(cfg, st, models.ActivityMigration,
		fmt.Sprintf("Daten von Version %s auf %s migriert", plan.StoredDataVersion, CurrentDataVersion))
	return record, err
}

// FreshStart drops all data and stamps the current versions. When backup is
// set, a snapshot file is written first.
func FreshStart(cfg *config.Config, st *store.Store, backup bool) (string, error) {
	var backupPath string
	if backup {
		snap, err := st.ExportSnapshot()
		if err != nil {
			return "", err
		}
		backupPath, err = writeBackup(cfg, snap, "pre-reset")
		if err != nil {
			return "", err
		}
	}

	if err := st.ClearShipments(); err != nil {
		return backupPath, err
	}
	if err := st.ClearUndo(); err != nil {
		return backupPath, err
	}
	if err := st.SetValue(store.KeyDataVersion, CurrentDataVersion); err != nil {
		return backupPath, err
	}
	if err := st.SetValue(store.KeyAppVersion, CurrentAppVersion); err != nil {
		return backupPath, err
	}

	_, err := logActivity(cfg, st, models.ActivityMigration,
		fmt.Sprintf("Datenbestand zurückgesetzt (Version %s)", CurrentDataVersion))
	return backupPath, err
}

// writeBackup stores a snapshot under the snapshots directory.
func writeBackup(cfg *config.Config, snap *store.Snapshot, tag string) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal backup: %w", err)
	}

	if err := os.MkdirAll(cfg.SnapshotsPath(), 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("backup-%s-%s.json", tag, time.Now().Format("20060102-150405"))
	path := filepath.Join(cfg.SnapshotsPath(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

func blobFromSnapshot(snap *store.Snapshot) (*Blob, error) {
	blob := &Blob{KV: make(map[string]string, len(snap.KV))}
	for k, v := range snap.KV {
		blob.KV[k] = v
	}
	blob.Shipments = make([]map[string]any, len(snap.Shipments))
	for i, raw := range snap.Shipments {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal shipment blob: %w", err)
		}
		blob.Shipments[i] = m
	}
	return blob, nil
}

// setDefault fills a missing key without overwriting existing values,
// keeping every step additive.
func setDefault(m map[string]any, key string, value any) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}

// migrate10to20 introduced the service add-on flags and the delivery
// confirmation code.
func migrate10to20(blob *Blob) error {
	for _, s := range blob.Shipments {
		setDefault(s, "delivery_confirmation", "")
		setDefault(s, "shipper_release", false)
		setDefault(s, "saturday_delivery", false)
		setDefault(s, "carbon_neutral", false)
		setDefault(s, "large_package", false)
		setDefault(s, "additional_handling", false)
	}
	if _, ok := blob.KV["default_unit"]; !ok {
		blob.KV["default_unit"] = "KG"
	}
	return nil
}

// migrate20to21 introduced premium care, electronic release, and the
// lithium battery declarations.
func migrate20to21(blob *Blob) error {
	for _, s := range blob.Shipments {
		setDefault(s, "premium_care", false)
		setDefault(s, "electronic_release", false)
		setDefault(s, "lithium_ion_alone", false)
		setDefault(s, "lithium_ion_in_equipment", false)
		setDefault(s, "lithium_ion_with_equipment", false)
		setDefault(s, "lithium_metal_alone", false)
		setDefault(s, "lithium_metal_in_equipment", false)
	}
	return nil
}

// migrate21to22 introduced the second and third reference, the residential
// flag, and the consignee email.
func migrate21to22(blob *Blob) error {
	for _, s := range blob.Shipments {
		setDefault(s, "reference2", "")
		setDefault(s, "reference3", "")
		setDefault(s, "residential", false)
		setDefault(s, "email", "")
	}
	return nil
}
