package http

import (
	"net/http"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/handler/http/response"
)

type ShiftHandler interface {
	MyShifts(w http.ResponseWriter, r *http.Request)
	CheckMissed(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
	detector     shift.Detector
}

func NewShiftHandler(shiftService shift.ShiftService, detector shift.Detector) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
		detector:     detector,
	}
}

type detectionOutcome struct {
	ShiftID string `json:"shift_id"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

type checkMissedResponse struct {
	MarkedAny bool               `json:"marked_any"`
	Scanned   int                `json:"scanned"`
	Outcomes  []detectionOutcome `json:"outcomes"`
}

// MyShifts implements ShiftHandler.
func (h *shiftHandlerImpl) MyShifts(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := shift.MyShiftsFilter{}
	if from := r.URL.Query().Get("from"); from != "" {
		filter.From = &from
	}
	if to := r.URL.Query().Get("to"); to != "" {
		filter.To = &to
	}

	result, err := h.shiftService.GetMyShifts(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckMissed implements ShiftHandler. Managers scan their company,
// everyone else their own shifts.
func (h *shiftHandlerImpl) CheckMissed(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	scope := shift.Scope{CompanyID: actor.CompanyID}
	if !actor.IsManager() {
		scope.EmployeeID = actor.EmployeeID
	}

	report, err := h.detector.Detect(r.Context(), actor, scope)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := checkMissedResponse{
		MarkedAny: report.MarkedAny(),
		Scanned:   report.Scanned,
		Outcomes:  make([]detectionOutcome, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		o := detectionOutcome{ShiftID: res.ShiftID, Outcome: string(res.Outcome)}
		if res.Err != nil {
			o.Error = res.Err.Error()
		}
		resp.Outcomes = append(resp.Outcomes, o)
	}

	response.Success(w, resp)
}
