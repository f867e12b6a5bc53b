// Package memory holds in-process implementations of the repositories. It
// backs tests and single-node deployments without a database.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/coverage"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
)

type txKey struct{}

// Store is the shared state behind every memory repository. Each call runs
// under one lock; WithinTransaction holds it for the whole callback and
// restores a snapshot when the callback fails.
type Store struct {
	mu       sync.Mutex
	shifts   map[string]shift.Shift
	entries  map[string]clock.ClockEntry
	requests map[string]coverage.CoverageRequest
	logs     []clock.LocationLog
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		shifts:   make(map[string]shift.Shift),
		entries:  make(map[string]clock.ClockEntry),
		requests: make(map[string]coverage.CoverageRequest),
		now:      time.Now,
	}
}

// lock acquires the store unless ctx already belongs to one of its
// transactions.
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	shifts   map[string]shift.Shift
	entries  map[string]clock.ClockEntry
	requests map[string]coverage.CoverageRequest
	logs     []clock.LocationLog
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		shifts:   maps.Clone(s.shifts),
		entries:  maps.Clone(s.entries),
		requests: maps.Clone(s.requests),
		logs:     append([]clock.LocationLog(nil), s.logs...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.shifts = snap.shifts
	s.entries = snap.entries
	s.requests = snap.requests
	s.logs = snap.logs
}

// WithinTransaction implements database.Transactor.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// LocationLogs returns a copy of the appended location logs.
func (s *Store) LocationLogs() []clock.LocationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]clock.LocationLog(nil), s.logs...)
}

func (s *Store) Shifts() shift.ShiftRepository {
	return &shiftRepository{store: s}
}

func (s *Store) ClockEntries() clock.ClockEntryRepository {
	return &clockEntryRepository{store: s}
}

func (s *Store) LocationLogRepository() clock.LocationLogRepository {
	return &locationLogRepository{store: s}
}

func (s *Store) CoverageRequests() coverage.CoverageRequestRepository {
	return &coverageRequestRepository{store: s}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
