package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
)

type AttendanceJobs struct {
	detector           shift.Detector
	shiftService       shift.ShiftService
	detectorInterval   time.Duration
	completionInterval time.Duration
}

func NewAttendanceJobs(
	detector shift.Detector,
	shiftService shift.ShiftService,
	detectorInterval time.Duration,
	completionInterval time.Duration,
) *AttendanceJobs {
	return &AttendanceJobs{
		detector:           detector,
		shiftService:       shiftService,
		detectorInterval:   detectorInterval,
		completionInterval: completionInterval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("check_missed_shifts", j.detectorInterval, j.CheckMissedShifts)
	scheduler.AddJob("complete_attended_shifts", j.completionInterval, j.CompleteAttendedShifts)
}

// CheckMissedShifts runs the detector across every company.
func (j *AttendanceJobs) CheckMissedShifts(ctx context.Context) error {
	report, err := j.detector.Detect(ctx, user.SystemActor(), shift.Scope{})
	if err != nil {
		return fmt.Errorf("failed to check missed shifts: %w", err)
	}

	if report.Scanned == 0 {
		return nil
	}

	slog.Info("Cron: Missed shift check finished",
		"scanned", report.Scanned,
		"marked", report.Count(shift.OutcomeMarked),
		"attended", report.Count(shift.OutcomeAttended),
		"already_transitioned", report.Count(shift.OutcomeAlreadyTransitioned),
		"soft_failed", report.Count(shift.OutcomeSoftFailed),
	)
	return nil
}

func (j *AttendanceJobs) CompleteAttendedShifts(ctx context.Context) error {
	if _, err := j.shiftService.CompleteAttendedShifts(ctx); err != nil {
		return err
	}
	return nil
}
