package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/repository/memory"
	shiftservice "github.com/cmlabs-hris/shift-attendance-go/internal/service/shift"
)

func TestAttendanceJobs_RunOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()

	missed, err := store.Shifts().Create(ctx, shift.Shift{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		StartTime:  now.Add(-3 * time.Hour),
		EndTime:    now.Add(5 * time.Hour),
	})
	require.NoError(t, err)

	worked, err := store.Shifts().Create(ctx, shift.Shift{
		EmployeeID: "emp-2",
		CompanyID:  "company-2",
		StartTime:  now.Add(-10 * time.Hour),
		EndTime:    now.Add(-2 * time.Hour),
	})
	require.NoError(t, err)
	clockIn := worked.StartTime
	entry, err := store.ClockEntries().Create(ctx, clock.ClockEntry{EmployeeID: "emp-2", ShiftID: &worked.ID, ClockIn: &clockIn})
	require.NoError(t, err)
	clockOut := worked.EndTime
	entry.ClockOut = &clockOut
	_, err = store.ClockEntries().Close(ctx, entry)
	require.NoError(t, err)

	detector := shiftservice.NewDetector(store.Shifts(), store.ClockEntries(), nil, shiftservice.Config{})
	shiftService := shiftservice.NewShiftService(store.Shifts(), store.ClockEntries(), detector, shiftservice.Config{})

	scheduler := NewScheduler()
	NewAttendanceJobs(detector, shiftService, 30*time.Second, 5*time.Minute).RegisterJobs(scheduler)
	require.Len(t, scheduler.Jobs(), 2)

	scheduler.RunOnce(ctx)

	got, err := store.Shifts().GetByID(ctx, missed.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusMissed, got.Status)
	assert.True(t, got.IsMissed)

	got, err = store.Shifts().GetByID(ctx, worked.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusCompleted, got.Status)
	assert.False(t, got.IsMissed)
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	scheduler := NewScheduler()
	scheduler.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scheduler.Run(ctx) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
