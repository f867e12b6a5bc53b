package coverage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/coverage"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-attendance-go/internal/repository/memory"
	shiftservice "github.com/cmlabs-hris/shift-attendance-go/internal/service/shift"
)

var fixedNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func employee(id string) user.Actor {
	return user.Actor{UserID: "user-" + id, EmployeeID: id, CompanyID: "company-1", Role: user.RoleEmployee}
}

var manager = user.Actor{UserID: "user-mgr", EmployeeID: "mgr", CompanyID: "company-1", Role: user.RoleManager}

type fixture struct {
	store *memory.Store
	svc   coverage.CoverageService
}

func newFixture(t *testing.T, requests coverage.CoverageRequestRepository) fixture {
	t.Helper()
	store := memory.NewStore()
	if requests == nil {
		requests = store.CoverageRequests()
	}
	now := func() time.Time { return fixedNow }
	detector := shiftservice.NewDetector(store.Shifts(), store.ClockEntries(), nil, shiftservice.Config{Now: now})
	svc := NewCoverageService(store, requests, store.Shifts(), store.ClockEntries(), detector, Config{Now: now})
	return fixture{store: store, svc: svc}
}

func (f fixture) seedShift(t *testing.T, employeeID string, start time.Time) shift.Shift {
	t.Helper()
	s, err := f.store.Shifts().Create(context.Background(), shift.Shift{
		EmployeeID: employeeID,
		CompanyID:  "company-1",
		StartTime:  start,
		EndTime:    start.Add(8 * time.Hour),
	})
	require.NoError(t, err)
	return s
}

func TestRequestCoverage_Duplicate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.seedShift(t, "emp-1", fixedNow.Add(-time.Hour))

	first, err := f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: s.ID})
	require.NoError(t, err)
	assert.Equal(t, "pending", first.Status)
	assert.Equal(t, "emp-1", first.OriginalEmployeeID)

	_, err = f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: s.ID})
	assert.ErrorIs(t, err, coverage.ErrDuplicateRequest)

	_, err = f.svc.RequestCoverage(ctx, employee("emp-3"), coverage.CreateCoverageRequest{ShiftID: s.ID})
	assert.NoError(t, err, "another employee may still ask")
}

func TestRequestCoverage_Preconditions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	overdue := f.seedShift(t, "emp-1", fixedNow.Add(-time.Hour))
	future := f.seedShift(t, "emp-1", fixedNow.Add(time.Hour))
	attended := f.seedShift(t, "emp-4", fixedNow.Add(-time.Hour))

	clockIn := fixedNow.Add(-30 * time.Minute)
	_, err := f.store.ClockEntries().Create(ctx, clock.ClockEntry{EmployeeID: "emp-4", ShiftID: &attended.ID, ClockIn: &clockIn})
	require.NoError(t, err)

	_, err = f.svc.RequestCoverage(ctx, employee("emp-1"), coverage.CreateCoverageRequest{ShiftID: overdue.ID})
	assert.ErrorIs(t, err, coverage.ErrCannotCoverOwnShift)

	_, err = f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: future.ID})
	assert.ErrorIs(t, err, coverage.ErrShiftNotCoverable)

	_, err = f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: attended.ID})
	assert.ErrorIs(t, err, coverage.ErrShiftNotCoverable)

	outsider := employee("emp-9")
	outsider.CompanyID = "company-2"
	_, err = f.svc.RequestCoverage(ctx, outsider, coverage.CreateCoverageRequest{ShiftID: overdue.ID})
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)

	_, err = f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{})
	assert.Error(t, err)
}

func TestApproveRequest_ReassignsAndDeniesSiblings(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.seedShift(t, "emp-1", fixedNow.Add(-time.Hour))

	req, err := f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: s.ID})
	require.NoError(t, err)
	sibling, err := f.svc.RequestCoverage(ctx, employee("emp-3"), coverage.CreateCoverageRequest{ShiftID: s.ID})
	require.NoError(t, err)

	resp, err := f.svc.ApproveRequest(ctx, manager, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, "user-mgr", *resp.ResolvedBy)

	got, err := f.store.Shifts().GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReplacementEmployeeID)
	assert.Equal(t, "emp-2", *got.ReplacementEmployeeID)
	assert.True(t, got.ReplacementApprovedAt.Equal(fixedNow))

	denied, err := f.store.CoverageRequests().GetByID(ctx, sibling.ID)
	require.NoError(t, err)
	assert.Equal(t, coverage.StatusDenied, denied.Status)

	_, err = f.svc.ApproveRequest(ctx, manager, req.ID)
	assert.ErrorIs(t, err, coverage.ErrRequestAlreadyProcessed)
}

func TestApproveRequest_RequiresManager(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.seedShift(t, "emp-1", fixedNow.Add(-time.Hour))

	req, err := f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: s.ID})
	require.NoError(t, err)

	_, err = f.svc.ApproveRequest(ctx, employee("emp-2"), req.ID)
	assert.ErrorIs(t, err, user.ErrPermissionDenied)

	otherCompany := manager
	otherCompany.CompanyID = "company-2"
	_, err = f.svc.ApproveRequest(ctx, otherCompany, req.ID)
	assert.ErrorIs(t, err, coverage.ErrRequestNotFound)
}

// failingRequests fails selected writes after the shift has been updated.
type failingRequests struct {
	coverage.CoverageRequestRepository
	failResolve  bool
	failSiblings bool
}

var errInjected = errors.New("injected failure")

func (f *failingRequests) Resolve(ctx context.Context, id string, status coverage.Status, resolvedBy string, resolvedAt time.Time) (bool, error) {
	if f.failResolve {
		return false, errInjected
	}
	return f.CoverageRequestRepository.Resolve(ctx, id, status, resolvedBy, resolvedAt)
}

func (f *failingRequests) DenyPendingForShift(ctx context.Context, shiftID string, exceptID string, resolvedBy string, resolvedAt time.Time) (int64, error) {
	if f.failSiblings {
		return 0, errInjected
	}
	return f.CoverageRequestRepository.DenyPendingForShift(ctx, shiftID, exceptID, resolvedBy, resolvedAt)
}

func TestApproveRequest_IsAtomic(t *testing.T) {
	for _, tc := range []struct {
		name         string
		failResolve  bool
		failSiblings bool
	}{
		{name: "request write fails after shift write", failResolve: true},
		{name: "sibling denial fails after both writes", failSiblings: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			requests := &failingRequests{failResolve: tc.failResolve, failSiblings: tc.failSiblings}
			f := newFixture(t, requests)
			requests.CoverageRequestRepository = f.store.CoverageRequests()

			s := f.seedShift(t, "emp-1", fixedNow.Add(-time.Hour))
			req, err := f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: s.ID})
			require.NoError(t, err)

			_, err = f.svc.ApproveRequest(ctx, manager, req.ID)
			require.ErrorIs(t, err, errInjected)

			got, err := f.store.Shifts().GetByID(ctx, s.ID)
			require.NoError(t, err)
			assert.Nil(t, got.ReplacementEmployeeID)
			assert.Nil(t, got.ReplacementApprovedAt)

			stored, err := f.store.CoverageRequests().GetByID(ctx, req.ID)
			require.NoError(t, err)
			assert.Equal(t, coverage.StatusPending, stored.Status)

			// Retry once the fault clears.
			requests.failResolve = false
			requests.failSiblings = false
			_, err = f.svc.ApproveRequest(ctx, manager, req.ID)
			require.NoError(t, err)

			got, err = f.store.Shifts().GetByID(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, "emp-2", *got.ReplacementEmployeeID)
		})
	}
}

func TestDenyRequest(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.seedShift(t, "emp-1", fixedNow.Add(-time.Hour))

	req, err := f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: s.ID})
	require.NoError(t, err)

	resp, err := f.svc.DenyRequest(ctx, manager, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "denied", resp.Status)

	got, err := f.store.Shifts().GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ReplacementEmployeeID)

	_, err = f.svc.DenyRequest(ctx, manager, req.ID)
	assert.ErrorIs(t, err, coverage.ErrRequestAlreadyProcessed)
}

func TestAvailableToCover(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	missed := f.seedShift(t, "emp-1", fixedNow.Add(-time.Hour))
	f.seedShift(t, "emp-2", fixedNow.Add(-time.Hour)) // own shift
	f.seedShift(t, "emp-1", fixedNow.Add(time.Hour))  // not yet missed

	available, err := f.svc.AvailableToCover(ctx, employee("emp-2"))
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, missed.ID, available[0].ID)
	assert.Equal(t, "missed", available[0].DisplayStatus)
	assert.False(t, available[0].RequestPending)

	_, err = f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: missed.ID})
	require.NoError(t, err)

	available, err = f.svc.AvailableToCover(ctx, employee("emp-2"))
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.True(t, available[0].RequestPending)
}

func TestCoveredShiftLeavesPool(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.seedShift(t, "emp-1", fixedNow.Add(-time.Hour))

	req, err := f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: s.ID})
	require.NoError(t, err)
	_, err = f.svc.ApproveRequest(ctx, manager, req.ID)
	require.NoError(t, err)

	for _, viewer := range []user.Actor{employee("emp-2"), employee("emp-3"), manager} {
		available, err := f.svc.AvailableToCover(ctx, viewer)
		require.NoError(t, err)
		for _, a := range available {
			assert.NotEqual(t, s.ID, a.ID, "covered shift offered to %s", viewer.EmployeeID)
		}
	}

	approved, err := f.svc.MyApprovedCoverage(ctx, employee("emp-2"))
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, s.ID, approved[0].ID)

	_, err = f.svc.RequestCoverage(ctx, employee("emp-3"), coverage.CreateCoverageRequest{ShiftID: s.ID})
	assert.ErrorIs(t, err, shift.ErrShiftAlreadyCovered)
}

func TestListPending(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	s := f.seedShift(t, "emp-1", fixedNow.Add(-time.Hour))

	_, err := f.svc.RequestCoverage(ctx, employee("emp-2"), coverage.CreateCoverageRequest{ShiftID: s.ID})
	require.NoError(t, err)

	pending, err := f.svc.ListPending(ctx, manager)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = f.svc.ListPending(ctx, employee("emp-2"))
	assert.ErrorIs(t, err, user.ErrPermissionDenied)
}
