package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/clock"
	"github.com/cmlabs-hris/shift-attendance-go/internal/handler/http/response"
)

type ClockHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	Active(w http.ResponseWriter, r *http.Request)
}

type clockHandlerImpl struct {
	clockService clock.ClockService
}

func NewClockHandler(clockService clock.ClockService) ClockHandler {
	return &clockHandlerImpl{
		clockService: clockService,
	}
}

// ClockIn implements ClockHandler.
func (h *clockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req clock.ClockInRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Failed to decode clock in request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = actor.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.clockService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements ClockHandler.
func (h *clockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	entryID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req clock.ClockOutRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Failed to decode clock out request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EntryID = entryID
	req.EmployeeID = actor.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.clockService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// StartBreak implements ClockHandler.
func (h *clockHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	entryID, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.clockService.StartBreak(r.Context(), clock.BreakRequest{
		EntryID:    entryID,
		EmployeeID: actor.EmployeeID,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// EndBreak implements ClockHandler.
func (h *clockHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	entryID, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.clockService.EndBreak(r.Context(), clock.BreakRequest{
		EntryID:    entryID,
		EmployeeID: actor.EmployeeID,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Active implements ClockHandler.
func (h *clockHandlerImpl) Active(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.clockService.GetActive(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
