package shift

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/repository/memory"
)

func TestGetMyShifts_ProjectsStatus(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	missed := seedShift(t, store.Shifts(), "emp-1", fixedNow.Add(-time.Hour))
	attended := seedShift(t, store.Shifts(), "emp-1", fixedNow.Add(-50*time.Minute))
	upcoming := seedShift(t, store.Shifts(), "emp-1", fixedNow.Add(48*time.Hour))
	seedShift(t, store.Shifts(), "emp-2", fixedNow.Add(-time.Hour))

	clockIn := fixedNow.Add(-45 * time.Minute)
	_, err := store.ClockEntries().Create(ctx, clock.ClockEntry{EmployeeID: "emp-1", ShiftID: &attended.ID, ClockIn: &clockIn})
	require.NoError(t, err)

	cfg := testConfig()
	d := NewDetector(store.Shifts(), store.ClockEntries(), allowAll(), cfg)
	svc := NewShiftService(store.Shifts(), store.ClockEntries(), d, cfg)

	shifts, err := svc.GetMyShifts(ctx, employee("emp-1"), shift.MyShiftsFilter{})
	require.NoError(t, err)
	require.Len(t, shifts, 3)

	byID := map[string]shift.ShiftResponse{}
	for _, s := range shifts {
		byID[s.ID] = s
	}

	// The employee may not persist the transition; the projection still
	// shows the shift as missed.
	assert.Equal(t, string(attendance.StatusMissed), byID[missed.ID].DisplayStatus)
	assert.False(t, byID[missed.ID].IsMissed)
	assert.Equal(t, string(attendance.StatusStarted), byID[attended.ID].DisplayStatus)
	assert.NotNil(t, byID[attended.ID].ClockEntryID)
	assert.Equal(t, string(attendance.StatusUpcoming), byID[upcoming.ID].DisplayStatus)
}

func TestCompleteAttendedShifts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	done := seedShift(t, store.Shifts(), "emp-1", fixedNow.Add(-10*time.Hour))
	noShow := seedShift(t, store.Shifts(), "emp-2", fixedNow.Add(-10*time.Hour))

	in, out := done.StartTime, done.EndTime
	entry, err := store.ClockEntries().Create(ctx, clock.ClockEntry{EmployeeID: "emp-1", ShiftID: &done.ID, ClockIn: &in})
	require.NoError(t, err)
	entry.ClockOut = &out
	closed, err := store.ClockEntries().Close(ctx, entry)
	require.NoError(t, err)
	require.True(t, closed)

	cfg := testConfig()
	svc := NewShiftService(store.Shifts(), store.ClockEntries(), NewDetector(store.Shifts(), store.ClockEntries(), allowAll(), cfg), cfg)

	n, err := svc.CompleteAttendedShifts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.Shifts().GetByID(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusCompleted, got.Status)

	got, err = store.Shifts().GetByID(ctx, noShow.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusScheduled, got.Status)
}
