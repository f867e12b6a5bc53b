package attendance

import (
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
)

// Describe renders a shift with its projected display status.
func Describe(s shift.Shift, entry *clock.ClockEntry, now time.Time) shift.ShiftResponse {
	resp := shift.ToResponse(s)
	resp.DisplayStatus = string(ProjectStatus(s, entry, now))
	if entry != nil {
		id := entry.ID
		resp.ClockEntryID = &id
	}
	return resp
}

// DescribeAll renders shifts using the latest clock entry per shift id.
func DescribeAll(shifts []shift.Shift, entries map[string]clock.ClockEntry, now time.Time) []shift.ShiftResponse {
	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		var entry *clock.ClockEntry
		if e, ok := entries[s.ID]; ok {
			entry = &e
		}
		responses = append(responses, Describe(s, entry, now))
	}
	return responses
}

// ShiftIDs collects the ids of shifts.
func ShiftIDs(shifts []shift.Shift) []string {
	ids := make([]string, 0, len(shifts))
	for _, s := range shifts {
		ids = append(ids, s.ID)
	}
	return ids
}
