package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skleinke/upsbatch/internal/models"
)

// newTestStore creates a bbolt store in a temp directory for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := New(dbPath, nil)
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { st.Close() })
	return st
}

func testShipment(id int) *models.ShipmentRecord {
	now := time.Now()
	return &models.ShipmentRecord{
		ID:          id,
		CompanyName: fmt.Sprintf("Firma %d", id),
		Address1:    "Hauptstraße 1",
		City:        "Berlin",
		Country:     "DE",
		PostalCode:  "10115",
		Weight:      5,
		Unit:        models.UnitKG,
		CreatedAt:   now,
		UpdatedAt:   now,
		Errors:      []models.FieldError{},
	}
}

// ==================== KV ====================

func TestStore_KV(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SetValue("data_version", "2.2"))
	val, err := st.GetValue("data_version")
	require.NoError(t, err)
	assert.Equal(t, "2.2", val)

	val, err = st.GetValue("missing")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	require.NoError(t, st.SetValue("app_version", "2.2.1"))
	all, err := st.AllValues()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"data_version": "2.2", "app_version": "2.2.1"}, all)
}

// ==================== Shipments ====================

func TestStore_NextShipmentID_Monotonic(t *testing.T) {
	st := newTestStore(t)

	first, err := st.NextShipmentID()
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := st.NextShipmentID()
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	// deleting and clearing never reuses ids
	rec := testShipment(second)
	require.NoError(t, st.SaveShipment(rec))
	_, err = st.DeleteShipment(second)
	require.NoError(t, err)
	require.NoError(t, st.ClearShipments())

	third, err := st.NextShipmentID()
	require.NoError(t, err)
	assert.Equal(t, 3, third)
}

func TestStore_ShipmentCRUD(t *testing.T) {
	st := newTestStore(t)

	rec := testShipment(1)
	require.NoError(t, st.SaveShipment(rec))

	got, err := st.GetShipment(1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Firma 1", got.CompanyName)

	got, err = st.GetShipment(99)
	require.NoError(t, err)
	assert.Nil(t, got)

	existed, err := st.DeleteShipment(1)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = st.DeleteShipment(1)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestStore_AllShipments_OrderedByID(t *testing.T) {
	st := newTestStore(t)

	for _, id := range []int{3, 1, 2} {
		require.NoError(t, st.SaveShipment(testShipment(id)))
	}

	all, err := st.AllShipments()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 2, all[1].ID)
	assert.Equal(t, 3, all[2].ID)

	count, err := st.CountShipments()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStore_DeleteShipments(t *testing.T) {
	st := newTestStore(t)

	for id := 1; id <= 3; id++ {
		require.NoError(t, st.SaveShipment(testShipment(id)))
	}

	count, err := st.DeleteShipments([]int{1, 3, 99})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	remaining, err := st.AllShipments()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 2, remaining[0].ID)
}

func TestStore_RestoreShipments(t *testing.T) {
	st := newTestStore(t)

	rec := testShipment(7)
	require.NoError(t, st.SaveShipment(rec))
	_, err := st.DeleteShipment(7)
	require.NoError(t, err)

	require.NoError(t, st.RestoreShipments([]*models.ShipmentRecord{rec}))

	got, err := st.GetShipment(7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.ID)
}

// ==================== Activities ====================

func TestStore_Activities_NewestFirstAndCapped(t *testing.T) {
	st := newTestStore(t)

	// explicit same-length numeric ids keep the bucket chronological
	for i := 0; i < models.ActivityRetention+5; i++ {
		a := models.NewActivity(models.ActivityAdd, fmt.Sprintf("Eintrag %d", i), "Tester")
		a.ID = fmt.Sprintf("%019d", i)
		require.NoError(t, st.AppendActivity(a))
	}

	activities, err := st.Activities()
	require.NoError(t, err)
	require.Len(t, activities, models.ActivityRetention)

	// newest first, the oldest five were dropped
	assert.Equal(t, "Eintrag 54", activities[0].Message)
	assert.Equal(t, "Eintrag 5", activities[len(activities)-1].Message)

	require.NoError(t, st.ClearActivities())
	activities, err = st.Activities()
	require.NoError(t, err)
	assert.Empty(t, activities)
}

// ==================== Undo ====================

func undoOp(action models.UndoActionType, ts time.Time) *models.UndoOperation {
	op := models.NewUndoOperation("act-"+ts.Format("150405.000000000"), action, models.UndoData{
		Type:        string(action),
		Payload:     []byte(`{"id":1}`),
		Description: "Test",
	})
	op.Timestamp = ts
	return op
}

func TestStore_PushUndo_RejectsUnknownAction(t *testing.T) {
	st := newTestStore(t)

	err := st.PushUndo(undoOp("coffee_brewed", time.Now()))
	require.Error(t, err)
}

func TestStore_UndoOperations_NewestFirst(t *testing.T) {
	st := newTestStore(t)

	base := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, st.PushUndo(undoOp(models.UndoShipmentCreated, base.Add(time.Duration(i)*time.Millisecond))))
	}

	ops, err := st.UndoOperations()
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.True(t, ops[0].Timestamp.After(ops[2].Timestamp))
}

func TestStore_Undo_Capped(t *testing.T) {
	st := newTestStore(t)

	base := time.Now()
	for i := 0; i < models.UndoRetention+10; i++ {
		require.NoError(t, st.PushUndo(undoOp(models.UndoShipmentCreated, base.Add(time.Duration(i)*time.Millisecond))))
	}

	ops, err := st.UndoOperations()
	require.NoError(t, err)
	assert.Len(t, ops, models.UndoRetention)
}

func TestStore_Undo_ExpiredPurged(t *testing.T) {
	st := newTestStore(t)

	old := undoOp(models.UndoShipmentCreated, time.Now().Add(-8*24*time.Hour))
	fresh := undoOp(models.UndoShipmentCreated, time.Now())
	require.NoError(t, st.PushUndo(old))
	require.NoError(t, st.PushUndo(fresh))

	ops, err := st.UndoOperations()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, fresh.ID, ops[0].ID)
}

func TestStore_MarkUndoUsed(t *testing.T) {
	st := newTestStore(t)

	op := undoOp(models.UndoShipmentCreated, time.Now())
	require.NoError(t, st.PushUndo(op))

	require.NoError(t, st.MarkUndoUsed(op.ID))

	got, err := st.UndoByActivityID(op.ActivityID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Used)

	require.Error(t, st.MarkUndoUsed("does-not-exist"))
}

func TestStore_FailedWrite_KeepsDataIntact(t *testing.T) {
	st := newTestStore(t)

	for i := 0; i < 30; i++ {
		a := models.NewActivity(models.ActivityAdd, fmt.Sprintf("Eintrag %d", i), "Tester")
		a.ID = fmt.Sprintf("%019d", i)
		require.NoError(t, st.AppendActivity(a))
	}

	// a write that fails inside the transaction must not trigger the
	// space-reclaiming cleanup
	require.Error(t, st.MarkUndoUsed("fehlt"))

	activities, err := st.Activities()
	require.NoError(t, err)
	assert.Len(t, activities, 30)
}

func TestStore_UndoByActivityID_Missing(t *testing.T) {
	st := newTestStore(t)

	got, err := st.UndoByActivityID("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// ==================== Users ====================

func TestStore_UserLifecycle(t *testing.T) {
	st := newTestStore(t)

	got, err := st.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, got)

	profile := models.NewUserProfile("Sabine")
	require.NoError(t, st.SaveUser(profile))

	got, err = st.CurrentUser()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Sabine", got.Name)

	before := got.LastActive
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, st.TouchUser())
	got, err = st.CurrentUser()
	require.NoError(t, err)
	assert.True(t, got.LastActive.After(before))
}

func TestStore_ExpiredUserRemoved(t *testing.T) {
	st := newTestStore(t)

	profile := models.NewUserProfile("Sabine")
	profile.LastActive = time.Now().Add(-25 * time.Hour)
	require.NoError(t, st.SaveUser(profile))

	got, err := st.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, got)

	// the stale profile is gone for good
	got, err = st.CurrentUser()
	require.NoError(t, err)
	assert.Nil(t, got)
}

// ==================== Snapshots ====================

func TestStore_SnapshotRoundTrip(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveShipment(testShipment(1)))
	require.NoError(t, st.SaveShipment(testShipment(2)))
	require.NoError(t, st.SetValue("data_version", "2.2"))
	a := models.NewActivity(models.ActivityAdd, "Eintrag", "Tester")
	require.NoError(t, st.AppendActivity(a))

	snap, err := st.ExportSnapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Shipments, 2)
	assert.Len(t, snap.Activities, 1)
	assert.Equal(t, "2.2", snap.KV["data_version"])

	// mutate everything, then restore
	require.NoError(t, st.ClearShipments())
	require.NoError(t, st.SetValue("data_version", "9.9"))
	require.NoError(t, st.SaveShipment(testShipment(3)))

	require.NoError(t, st.RestoreSnapshot(snap))

	all, err := st.AllShipments()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].ID)

	version, err := st.GetValue("data_version")
	require.NoError(t, err)
	assert.Equal(t, "2.2", version)
}

func TestStore_MigrationHistory(t *testing.T) {
	st := newTestStore(t)

	history, err := st.MigrationHistory()
	require.NoError(t, err)
	assert.Empty(t, history)

	rec := models.NewMigrationRecord("1.0", "2.2", []string{"1.0→2.0"})
	rec.Success = true
	require.NoError(t, st.AppendMigrationRecord(rec))

	history, err = st.MigrationHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "1.0", history[0].FromVersion)
	assert.True(t, history[0].Success)
}
