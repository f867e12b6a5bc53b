package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/geolocation"
	"github.com/cmlabs-hris/shift-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shift-attendance-go/internal/repository/memory"
	clockservice "github.com/cmlabs-hris/shift-attendance-go/internal/service/clock"
	coverageservice "github.com/cmlabs-hris/shift-attendance-go/internal/service/coverage"
	shiftservice "github.com/cmlabs-hris/shift-attendance-go/internal/service/shift"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestAccessExp = "1h"
)

var (
	testEmployee = user.Actor{UserID: "user-1", EmployeeID: "emp-1", CompanyID: "company-1", Role: user.RoleEmployee}
	testCoverer  = user.Actor{UserID: "user-2", EmployeeID: "emp-2", CompanyID: "company-1", Role: user.RoleEmployee}
	testManager  = user.Actor{UserID: "user-3", EmployeeID: "mgr-1", CompanyID: "company-1", Role: user.RoleManager}
)

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

type testServer struct {
	store   *memory.Store
	jwt     jwt.Service
	handler http.Handler
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	store := memory.NewStore()
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)

	detector := shiftservice.NewDetector(store.Shifts(), store.ClockEntries(), shiftservice.NewLocalGate(0), shiftservice.Config{})
	clockService := clockservice.NewClockService(store.ClockEntries(), store.Shifts(), store.LocationLogRepository(), geolocation.NewCapturer(time.Second, nil), clockservice.Config{})
	t.Cleanup(clockService.Flush)
	shiftService := shiftservice.NewShiftService(store.Shifts(), store.ClockEntries(), detector, shiftservice.Config{})
	coverageService := coverageservice.NewCoverageService(store, store.CoverageRequests(), store.Shifts(), store.ClockEntries(), detector, coverageservice.Config{})

	router := NewRouter(
		jwtService,
		RouterOptions{AppName: "shift-attendance", Version: "test", Env: "test"},
		NewClockHandler(clockService),
		NewShiftHandler(shiftService, detector),
		NewCoverageHandler(coverageService),
	)
	return testServer{store: store, jwt: jwtService, handler: router}
}

func (s testServer) do(t *testing.T, actor *user.Actor, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		token, _, err := s.jwt.GenerateAccessToken(*actor)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s testServer) seedShift(t *testing.T, employeeID string, start time.Time) shift.Shift {
	t.Helper()
	created, err := s.store.Shifts().Create(context.Background(), shift.Shift{
		EmployeeID: employeeID,
		CompanyID:  "company-1",
		StartTime:  start,
		EndTime:    start.Add(8 * time.Hour),
	})
	require.NoError(t, err)
	return created
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, nil, http.MethodGet, "/api/v1/shifts/my", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
}

func TestRouter_ClockInTwiceConflicts(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, &testEmployee, http.MethodPost, "/api/v1/clock/in", nil)
	require.Equal(t, http.StatusCreated, code, string(env.Data))

	var entry struct {
		ID       string   `json:"id"`
		ClockIn  *string  `json:"clock_in"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.NotEmpty(t, entry.ID)
	assert.NotNil(t, entry.ClockIn)
	assert.NotEmpty(t, entry.Warnings, "no coordinates were reported")

	code, env = s.do(t, &testEmployee, http.MethodPost, "/api/v1/clock/in", nil)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_CLOCKED_IN", env.Error.Code)

	code, _ = s.do(t, &testEmployee, http.MethodPost, "/api/v1/clock/"+entry.ID+"/out", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = s.do(t, &testEmployee, http.MethodPost, "/api/v1/clock/"+entry.ID+"/out", nil)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NO_ACTIVE_ENTRY", env.Error.Code)
}

func TestRouter_ClockInRejectsBadCoordinates(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, &testEmployee, http.MethodPost, "/api/v1/clock/in", map[string]interface{}{
		"latitude":  123.0,
		"longitude": 10.0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "latitude")
}

func TestRouter_CheckMissedAndMyShifts(t *testing.T) {
	s := newTestServer(t)
	overdue := s.seedShift(t, testEmployee.EmployeeID, time.Now().Add(-time.Hour))

	code, env := s.do(t, &testManager, http.MethodPost, "/api/v1/shifts/check-missed", nil)
	require.Equal(t, http.StatusOK, code)

	var summary struct {
		MarkedAny bool `json:"marked_any"`
		Scanned   int  `json:"scanned"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.True(t, summary.MarkedAny)
	assert.Equal(t, 1, summary.Scanned)

	code, env = s.do(t, &testEmployee, http.MethodGet, "/api/v1/shifts/my", nil)
	require.Equal(t, http.StatusOK, code)

	var shifts []shift.ShiftResponse
	require.NoError(t, json.Unmarshal(env.Data, &shifts))
	require.Len(t, shifts, 1)
	assert.Equal(t, overdue.ID, shifts[0].ID)
	assert.Equal(t, "missed", shifts[0].DisplayStatus)
	assert.True(t, shifts[0].IsMissed)
}

func TestRouter_CoverageFlow(t *testing.T) {
	s := newTestServer(t)
	overdue := s.seedShift(t, testEmployee.EmployeeID, time.Now().Add(-time.Hour))

	code, env := s.do(t, &testCoverer, http.MethodGet, "/api/v1/coverage/available", nil)
	require.Equal(t, http.StatusOK, code)
	var pool []shift.ShiftResponse
	require.NoError(t, json.Unmarshal(env.Data, &pool))
	require.Len(t, pool, 1)
	assert.Equal(t, overdue.ID, pool[0].ID)

	code, env = s.do(t, &testCoverer, http.MethodPost, "/api/v1/coverage/requests", map[string]string{"shift_id": overdue.ID})
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "pending", created.Status)

	code, env = s.do(t, &testCoverer, http.MethodPost, "/api/v1/coverage/requests", map[string]string{"shift_id": overdue.ID})
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_REQUEST", env.Error.Code)

	code, _ = s.do(t, &testCoverer, http.MethodGet, "/api/v1/coverage/requests", nil)
	assert.Equal(t, http.StatusForbidden, code, "employees cannot list pending requests")

	code, _ = s.do(t, &testCoverer, http.MethodPost, "/api/v1/coverage/requests/"+created.ID+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, &testManager, http.MethodGet, "/api/v1/coverage/requests", nil)
	require.Equal(t, http.StatusOK, code)
	var pending []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)

	code, env = s.do(t, &testManager, http.MethodPost, "/api/v1/coverage/requests/"+created.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, code)
	var approved struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &approved))
	assert.Equal(t, "approved", approved.Status)

	stored, err := s.store.Shifts().GetByID(context.Background(), overdue.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ReplacementEmployeeID)
	assert.Equal(t, testCoverer.EmployeeID, *stored.ReplacementEmployeeID)
	assert.NotNil(t, stored.ReplacementApprovedAt)

	code, env = s.do(t, &testManager, http.MethodPost, "/api/v1/coverage/requests/"+created.ID+"/approve", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.do(t, &testCoverer, http.MethodGet, "/api/v1/coverage/approved", nil)
	require.Equal(t, http.StatusOK, code)
	var mine []shift.ShiftResponse
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, overdue.ID, mine[0].ID)
}

func TestRouter_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, nil, http.MethodGet, "/api/v2/nothing", nil)
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRouter_MalformedIDIsNotFound(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, &testEmployee, http.MethodPost, "/api/v1/clock/not-an-id/out", nil)
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	code, _ = s.do(t, &testManager, http.MethodPost, "/api/v1/coverage/requests/42/approve", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(t, &testCoverer, http.MethodPost, "/api/v1/coverage/requests", map[string]string{"shift_id": "abc"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "shift_id")
}
