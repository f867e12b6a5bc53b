package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func scheduled() shift.Shift {
	return shift.Shift{
		ID:         "shift-1",
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		StartTime:  at(9, 0),
		EndTime:    at(17, 0),
		Status:     shift.StatusScheduled,
	}
}

func TestProjectStatus(t *testing.T) {
	missedAt := at(9, 20)

	tests := []struct {
		name  string
		shift func() shift.Shift
		entry *clock.ClockEntry
		now   time.Time
		want  Status
	}{
		{
			name:  "overdue without clock-in is missed before the flag is persisted",
			shift: scheduled,
			now:   at(9, 16),
			want:  StatusMissed,
		},
		{
			name:  "exactly at grace deadline is still in progress",
			shift: scheduled,
			now:   at(9, 15),
			want:  StatusInProgress,
		},
		{
			name: "persisted missed flag wins over an active entry",
			shift: func() shift.Shift {
				s := scheduled()
				s.IsMissed = true
				s.MissedAt = &missedAt
				s.Status = shift.StatusMissed
				return s
			},
			entry: &clock.ClockEntry{ClockIn: ptr(at(9, 30))},
			now:   at(10, 0),
			want:  StatusMissed,
		},
		{
			name: "completed",
			shift: func() shift.Shift {
				s := scheduled()
				s.Status = shift.StatusCompleted
				return s
			},
			entry: &clock.ClockEntry{ClockIn: ptr(at(9, 0)), ClockOut: ptr(at(17, 0))},
			now:   at(18, 0),
			want:  StatusCompleted,
		},
		{
			name: "cancelled",
			shift: func() shift.Shift {
				s := scheduled()
				s.StartTime = at(20, 0)
				s.EndTime = at(23, 0)
				s.Status = shift.StatusCancelled
				return s
			},
			now:  at(10, 0),
			want: StatusCancelled,
		},
		{
			name:  "open break",
			shift: scheduled,
			entry: &clock.ClockEntry{ClockIn: ptr(at(9, 0)), BreakStart: ptr(at(12, 0))},
			now:   at(12, 10),
			want:  StatusOnBreak,
		},
		{
			name:  "clock-in after grace is late",
			shift: scheduled,
			entry: &clock.ClockEntry{ClockIn: ptr(at(9, 20))},
			now:   at(10, 0),
			want:  StatusLate,
		},
		{
			name:  "clock-in within grace is started",
			shift: scheduled,
			entry: &clock.ClockEntry{ClockIn: ptr(at(9, 10))},
			now:   at(10, 0),
			want:  StatusStarted,
		},
		{
			name:  "closed break on active entry is started",
			shift: scheduled,
			entry: &clock.ClockEntry{ClockIn: ptr(at(8, 55)), BreakStart: ptr(at(12, 0)), BreakEnd: ptr(at(12, 30))},
			now:   at(13, 0),
			want:  StatusStarted,
		},
		{
			name:  "attended and clocked out after end is past",
			shift: scheduled,
			entry: &clock.ClockEntry{ClockIn: ptr(at(9, 0)), ClockOut: ptr(at(17, 0))},
			now:   at(18, 0),
			want:  StatusPast,
		},
		{
			name:  "inside window before grace without entry",
			shift: scheduled,
			now:   at(9, 5),
			want:  StatusInProgress,
		},
		{
			name:  "later today",
			shift: scheduled,
			now:   at(7, 0),
			want:  StatusToday,
		},
		{
			name: "tomorrow",
			shift: func() shift.Shift {
				s := scheduled()
				s.StartTime = s.StartTime.AddDate(0, 0, 1)
				s.EndTime = s.EndTime.AddDate(0, 0, 1)
				return s
			},
			now:  at(7, 0),
			want: StatusTomorrow,
		},
		{
			name: "next week is upcoming",
			shift: func() shift.Shift {
				s := scheduled()
				s.StartTime = s.StartTime.AddDate(0, 0, 7)
				s.EndTime = s.EndTime.AddDate(0, 0, 7)
				return s
			},
			now:  at(7, 0),
			want: StatusUpcoming,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectStatus(tt.shift(), tt.entry, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectStatus_CalendarUsesNowLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	s := scheduled()
	// 2026-03-10 20:00 UTC is 2026-03-11 03:00 in WIB.
	s.StartTime = time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	s.EndTime = s.StartTime.Add(8 * time.Hour)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, jakarta)

	assert.Equal(t, StatusTomorrow, ProjectStatus(s, nil, now))
	assert.Equal(t, StatusToday, ProjectStatus(s, nil, now.In(time.UTC)))
}

func TestIsEffectivelyMissed(t *testing.T) {
	s := scheduled()

	assert.True(t, IsEffectivelyMissed(s, nil, at(10, 0)))
	assert.False(t, IsEffectivelyMissed(s, &clock.ClockEntry{ClockIn: ptr(at(9, 30))}, at(10, 0)))
	assert.Equal(t, "On Break", StatusOnBreak.Label())
}

func TestDescribeAll(t *testing.T) {
	s := scheduled()
	entry := clock.ClockEntry{ID: "entry-1", ShiftID: &s.ID, ClockIn: ptr(at(9, 5))}

	other := scheduled()
	other.ID = "shift-2"

	responses := DescribeAll([]shift.Shift{s, other}, map[string]clock.ClockEntry{s.ID: entry}, at(10, 0))

	assert.Len(t, responses, 2)
	assert.Equal(t, string(StatusStarted), responses[0].DisplayStatus)
	assert.Equal(t, "entry-1", *responses[0].ClockEntryID)
	assert.Equal(t, string(StatusMissed), responses[1].DisplayStatus)
	assert.Nil(t, responses[1].ClockEntryID)
	assert.Equal(t, []string{"shift-1", "shift-2"}, ShiftIDs([]shift.Shift{s, other}))
}
