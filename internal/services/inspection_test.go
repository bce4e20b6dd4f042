package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/avoronin/facadekeeper/internal/common"
	"github.com/avoronin/facadekeeper/internal/findings"
	"github.com/avoronin/facadekeeper/internal/logging"
	"github.com/avoronin/facadekeeper/internal/models"
	"github.com/avoronin/facadekeeper/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*InspectionService, *storage.Memory) {
	t.Helper()
	backend := storage.NewMemory()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	svc, err := NewInspection(backend, "Demo", log)
	require.NoError(t, err)
	return svc, backend
}

func crackPin(x, y float64) models.Pin {
	return models.Pin{
		Pos:      &models.Position{X: x, Y: y},
		Name:     "Crack A",
		Status:   "Unsafe",
		Material: "Stone",
		Defect:   "Crack",
	}
}

func TestNewInspection_RejectsBadProjectName(t *testing.T) {
	backend := storage.NewMemory()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	_, err := NewInspection(backend, "../escape", log)
	assert.ErrorIs(t, err, common.ErrInvalidProject)
}

func TestUpsertAndLink_NewPin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.UpsertAndLink(ctx, crackPin(0.5, 0.5), "North")
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, 101, res.Pin.ID)
	assert.Equal(t, "North", res.Pin.Elevation)
	assert.Equal(t, 1, res.Finding.ID)
	assert.Equal(t, "Crack A", res.Finding.Title)
	assert.Equal(t, 101, res.Finding.PinID)
	assert.Equal(t, 1, res.Pin.FindingID)

	// The finding_id write-back is persisted, not just returned.
	list, err := svc.Pins(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].FindingID)
}

func TestUpsertAndLink_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.UpsertAndLink(ctx, crackPin(0.5, 0.5), "North")
	require.NoError(t, err)
	second, err := svc.UpsertAndLink(ctx, crackPin(0.5, 0.5), "North")
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, first.Pin.ID, second.Pin.ID)
	assert.Equal(t, first.Finding.ID, second.Finding.ID)

	list, err := svc.Pins(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, svc.Board(ctx)["Unsafe"], 1)
}

func TestUpsertAndLink_DuplicateWithinTolerance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.UpsertAndLink(ctx, crackPin(0.5, 0.5), "North")
	require.NoError(t, err)

	dup := crackPin(0.5000005, 0.4999995)
	dup.Status = "Verified"
	res, err := svc.UpsertAndLink(ctx, dup, "North")
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, 101, res.Pin.ID)
	assert.Equal(t, "Verified", res.Pin.Status)
	assert.Equal(t, "Verified", res.Finding.Status)

	list, err := svc.Pins(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpsertAndLink_DistinctBeyondToleranceOrElevation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.UpsertAndLink(ctx, crackPin(0.5, 0.5), "North")
	require.NoError(t, err)

	// 1e-5 away on one axis is a different spot.
	res, err := svc.UpsertAndLink(ctx, crackPin(0.50001, 0.5), "North")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 102, res.Pin.ID)

	// Same coordinates on another elevation is a different spot too.
	res, err = svc.UpsertAndLink(ctx, crackPin(0.5, 0.5), "South")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 103, res.Pin.ID)
}

func TestUpsertAndLink_MergeLinksUnlinkedPin(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	// A pin written by an older version: present in pins.json but never
	// projected into the finding store.
	require.NoError(t, backend.PutJSON(ctx, "Demo/pins.json", []models.Pin{{
		ID: 105, Pos: &models.Position{X: 0.2, Y: 0.3},
		Name: "Spall", Status: "Unsafe", Material: "Stone", Defect: "Spall", Elevation: "North",
	}}))

	res, err := svc.UpsertAndLink(ctx, models.Pin{Pos: &models.Position{X: 0.2, Y: 0.3}}, "North")
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, 105, res.Pin.ID)
	assert.Equal(t, 1, res.Finding.ID)
	assert.Equal(t, 1, res.Pin.FindingID)
}

func TestUpsertAndLink_MovedPinKeepsID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	first, err := svc.UpsertAndLink(ctx, crackPin(0.5, 0.5), "North")
	require.NoError(t, err)
	require.Equal(t, 101, first.Pin.ID)

	// The same pin dragged to a spot far beyond the duplicate tolerance.
	moved := first.Pin
	moved.Pos = &models.Position{X: 0.9, Y: 0.5}
	res, err := svc.UpsertAndLink(ctx, moved, "North")
	require.NoError(t, err)

	assert.False(t, res.Created)
	assert.Equal(t, 101, res.Pin.ID)
	assert.Equal(t, first.Finding.ID, res.Finding.ID)

	list, err := svc.Pins(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.InDelta(t, 0.9, list[0].Pos.X, 1e-12)
	assert.Len(t, svc.Board(ctx)["Unsafe"], 1)
}

func TestUpsertAndLink_RequiresPosition(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.UpsertAndLink(ctx, models.Pin{Name: "n", Material: "m", Defect: "d"}, "North")
	assert.ErrorIs(t, err, common.ErrMissingField)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.UpsertAndLink(ctx, crackPin(0.1, 0.1), "North")
	require.NoError(t, err)
	_, err = svc.UpsertAndLink(ctx, crackPin(0.2, 0.2), "North")
	require.NoError(t, err)

	rows, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, findings.PairCount{Material: "Stone", Defect: "Crack", Count: 2}, rows[0])
}

func TestMigrate_RunsBothPathsAndIsRepeatable(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	require.NoError(t, backend.PutJSON(ctx, "Demo/pins.json", []models.Pin{
		{ID: 101, Pos: &models.Position{X: 0.1, Y: 0.1}, Chat: []json.RawMessage{json.RawMessage(`"old note"`)}},
	}))
	require.NoError(t, backend.PutJSON(ctx, findings.LegacyPath, []models.Finding{
		{ID: 7, Title: "Ours", PinID: 101, Status: "Unsafe"},
		{ID: 8, Title: "Not ours", PinID: 999, Status: "Unsafe"},
	}))

	report, err := svc.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, MigrationReport{LegacyFindings: 1, InlineChats: 1}, report)

	// Inline chat landed in the per-pin log and was cleared off the record.
	assert.Len(t, svc.ChatLog(ctx, 101), 1)
	list, err := svc.Pins(ctx)
	require.NoError(t, err)
	assert.Nil(t, list[0].Chat)

	// Second run finds nothing new to move.
	report, err = svc.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, MigrationReport{}, report)
	assert.Len(t, svc.Board(ctx)["Unsafe"], 1)
}

func TestMigrate_ClearsInlineChatWhenLogAlreadyExists(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	// The per-pin log file was already written by an earlier run, but the
	// pin record still carries the stale inline list.
	require.NoError(t, backend.PutJSON(ctx, "Demo/chat_data/pin_101_chat.json", []models.Message{
		models.NewTextMessage("already migrated", "A", time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)),
	}))
	require.NoError(t, backend.PutJSON(ctx, "Demo/pins.json", []models.Pin{
		{ID: 101, Pos: &models.Position{X: 0.1, Y: 0.1}, Chat: []json.RawMessage{json.RawMessage(`"legacy note"`)}},
	}))

	report, err := svc.Migrate(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.InlineChats)

	// The existing log wins and the cleared inline list is persisted.
	assert.Len(t, svc.ChatLog(ctx, 101), 1)
	list, err := svc.Pins(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Chat)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.UpsertAndLink(ctx, crackPin(0.5, 0.5), "North")
	require.NoError(t, err)
	require.NoError(t, svc.Say(ctx, res.Pin.ID, "note", "A"))

	report, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Demo", report.Project)
	assert.Equal(t, 1, report.Pins)
	assert.Equal(t, 1, report.Findings)
	assert.Equal(t, 1, report.Chat.PinsWithChat)
	assert.Equal(t, 1, report.Chat.TotalTextMessages)
}

func TestExport_WritesDatedSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t)

	oldNow, oldKey := timeNow, newExport
	timeNow = func() time.Time { return time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC) }
	newExport = func() string { return "0f0e0d0c-0b0a-0908-0706-050403020100" }
	t.Cleanup(func() { timeNow, newExport = oldNow, oldKey })

	_, err := svc.UpsertAndLink(ctx, crackPin(0.5, 0.5), "North")
	require.NoError(t, err)

	key, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "exports/Demo/2025/09/01/0f0e0d0c-0b0a-0908-0706-050403020100.json", key)

	var snap snapshot
	found, err := backend.GetJSON(ctx, key, &snap)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Demo", snap.Project)
	assert.Len(t, snap.Pins, 1)
	assert.Len(t, snap.Findings, 1)
	assert.Equal(t, "2025-09-01T10:00:00Z", snap.ExportedAt)
}
