package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/coverage"
	"github.com/cmlabs-hris/shift-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/validator"
)

type CoverageHandler interface {
	Available(w http.ResponseWriter, r *http.Request)
	Approved(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Deny(w http.ResponseWriter, r *http.Request)
}

type coverageHandlerImpl struct {
	coverageService coverage.CoverageService
}

func NewCoverageHandler(coverageService coverage.CoverageService) CoverageHandler {
	return &coverageHandlerImpl{
		coverageService: coverageService,
	}
}

// Available implements CoverageHandler.
func (h *coverageHandlerImpl) Available(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.coverageService.AvailableToCover(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approved implements CoverageHandler.
func (h *coverageHandlerImpl) Approved(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.coverageService.MyApprovedCoverage(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements CoverageHandler.
func (h *coverageHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req coverage.CreateCoverageRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Failed to decode coverage request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ReplacementEmployeeID = actor.EmployeeID
	req.CompanyID = actor.CompanyID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	if !validator.IsValidUUID(req.ShiftID) {
		response.ValidationError(w, map[string]string{"shift_id": "shift_id must be a valid id"})
		return
	}

	result, err := h.coverageService.RequestCoverage(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Coverage request submitted", result)
}

// ListPending implements CoverageHandler.
func (h *coverageHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.coverageService.ListPending(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements CoverageHandler.
func (h *coverageHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requestID, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.coverageService.ApproveRequest(r.Context(), actor, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Coverage request approved", result)
}

// Deny implements CoverageHandler.
func (h *coverageHandlerImpl) Deny(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requestID, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.coverageService.DenyRequest(r.Context(), actor, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Coverage request denied", result)
}
