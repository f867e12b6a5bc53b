package coverage

import (
	"context"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
)

// CoverageService lets employees request to cover missed shifts and
// managers approve or deny those requests.
type CoverageService interface {
	// RequestCoverage files a pending request by actor to cover a shift
	// from the coverage pool.
	RequestCoverage(ctx context.Context, actor user.Actor, req CreateCoverageRequest) (CoverageRequestResponse, error)

	// ApproveRequest reassigns the shift and approves the request as one
	// atomic unit.
	ApproveRequest(ctx context.Context, actor user.Actor, requestID string) (CoverageRequestResponse, error)

	DenyRequest(ctx context.Context, actor user.Actor, requestID string) (CoverageRequestResponse, error)

	// ListPending returns the company's pending requests (manager view).
	ListPending(ctx context.Context, actor user.Actor) ([]CoverageRequestResponse, error)

	// AvailableToCover is the coverage pool as seen by actor. Shifts the
	// actor already requested are flagged RequestPending.
	AvailableToCover(ctx context.Context, actor user.Actor) ([]shift.ShiftResponse, error)

	// MyApprovedCoverage returns shifts the actor was approved to cover.
	MyApprovedCoverage(ctx context.Context, actor user.Actor) ([]shift.ShiftResponse, error)
}
