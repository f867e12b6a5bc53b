package attendance

import (
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
)

// Status is the display status of a shift.
type Status string

const (
	StatusMissed     Status = "missed"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusOnBreak    Status = "on_break"
	StatusLate       Status = "late"
	StatusStarted    Status = "started"
	StatusInProgress Status = "in_progress"
	StatusPast       Status = "past"
	StatusToday      Status = "today"
	StatusTomorrow   Status = "tomorrow"
	StatusUpcoming   Status = "upcoming"
)

// Label returns the human readable form of the status.
func (s Status) Label() string {
	switch s {
	case StatusMissed:
		return "Missed"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	case StatusOnBreak:
		return "On Break"
	case StatusLate:
		return "Late"
	case StatusStarted:
		return "Started"
	case StatusInProgress:
		return "In Progress"
	case StatusPast:
		return "Past"
	case StatusToday:
		return "Today"
	case StatusTomorrow:
		return "Tomorrow"
	default:
		return "Upcoming"
	}
}

// ProjectStatus combines a shift, its optional clock entry and the wall
// clock into a display status. Rules are checked in priority order and the
// first match wins; a missed shift is never shown as on time.
//
// The time-based missed rule only applies when nobody clocked in against the
// shift. An employee who arrives after the grace deadline is Late, and the
// detector never persists missed for an attended shift either.
//
// "Today" and "Tomorrow" are calendar days in now's location.
func ProjectStatus(s shift.Shift, entry *clock.ClockEntry, now time.Time) Status {
	clockedIn := entry != nil && entry.ClockIn != nil

	if s.IsPersistedMissed() || (!clockedIn && s.IsOverdue(now)) {
		return StatusMissed
	}

	switch s.Status {
	case shift.StatusCompleted:
		return StatusCompleted
	case shift.StatusCancelled:
		return StatusCancelled
	}

	if entry != nil && entry.OnBreak() {
		return StatusOnBreak
	}

	if entry != nil && entry.IsActive() {
		if entry.ClockIn.After(s.GraceDeadline()) {
			return StatusLate
		}
		return StatusStarted
	}

	if !now.Before(s.StartTime) && !now.After(s.EndTime) {
		return StatusInProgress
	}

	if now.After(s.EndTime) {
		return StatusPast
	}

	return calendarStatus(s.StartTime, now)
}

func calendarStatus(start, now time.Time) Status {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	local := start.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch {
	case day.Equal(today):
		return StatusToday
	case day.Equal(today.AddDate(0, 0, 1)):
		return StatusTomorrow
	default:
		return StatusUpcoming
	}
}

// IsEffectivelyMissed is the read-time missed determination used by the
// coverage pool: persisted missed, or overdue with no clock-in.
func IsEffectivelyMissed(s shift.Shift, entry *clock.ClockEntry, now time.Time) bool {
	return ProjectStatus(s, entry, now) == StatusMissed
}
