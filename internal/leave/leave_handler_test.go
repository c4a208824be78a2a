package leave_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	leavemock "go-leave/internal/leave/mock"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")

	c.Set("user_id", int64(101))
	c.Set("employee_id", int64(1))
	c.Set("role", "employee")
	c.Set("name", "Eve")
	c.Set("email", "eve@corp.test")
	return c, w
}

var eveActor = leave.Actor{UserID: 101, EmployeeID: 1, Role: "employee", Name: "Eve", Email: "eve@corp.test"}

func TestHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := leavemock.NewMockService(ctrl)
	h := leave.NewHandler(svc, zap.NewNop())

	t.Run("success", func(t *testing.T) {
		req := leave.CreateLeaveRequest{LeaveType: "Annual Leave", StartDate: "2024-06-10", EndDate: "2024-06-12"}
		svc.EXPECT().
			Create(gomock.Any(), eveActor, req).
			Return(leave.LeaveResponse{ID: 1, Status: leave.StatusPending}, nil)

		c, w := newContext(http.MethodPost, "/api/v1/leave", req)
		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.True(t, env.Ok)
		assert.JSONEq(t, `1`, string(mustField(t, env.Data, "id")))
	})

	t.Run("binding error", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/api/v1/leave", map[string]string{"start_date": "2024-06-10"})
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decode(t, w).Error.Code)
	})

	t.Run("overlap", func(t *testing.T) {
		svc.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap.WithMessage("overlaps Annual Leave"))

		c, w := newContext(http.MethodPost, "/api/v1/leave", leave.CreateLeaveRequest{LeaveType: "Annual Leave", StartDate: "2024-06-11", EndDate: "2024-06-11"})
		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.Equal(t, "CONFLICT", env.Error.Code)
		assert.Equal(t, "overlaps Annual Leave", env.Error.Message)
	})

	t.Run("unexpected error is hidden", func(t *testing.T) {
		svc.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(leave.LeaveResponse{}, errors.New("pq: connection refused"))

		c, w := newContext(http.MethodPost, "/api/v1/leave", leave.CreateLeaveRequest{LeaveType: "Annual Leave", StartDate: "2024-06-11", EndDate: "2024-06-11"})
		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", decode(t, w).Error.Message)
	})
}

func mustField(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}

func TestHandler_ApproveGates(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := leavemock.NewMockService(ctrl)
	h := leave.NewHandler(svc, zap.NewNop())

	body := leave.ApproveLeaveRequest{Status: leave.GateApproved, Comment: "ok"}

	svc.EXPECT().Approve(gomock.Any(), gomock.Any(), int64(5), leave.GateHod, body).Return(leave.LeaveResponse{ID: 5}, nil)
	svc.EXPECT().Approve(gomock.Any(), gomock.Any(), int64(5), leave.GateAdmin, body).Return(leave.LeaveResponse{}, leaveerrors.ErrHodRejected)

	c, w := newContext(http.MethodPatch, "/api/v1/leave/5/approve-hod", body)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.ApproveHod(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodPatch, "/api/v1/leave/5/approve-admin", body)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.ApproveAdmin(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, decode(t, w).Error.Message, "resubmit")

	c, w = newContext(http.MethodPatch, "/api/v1/leave/x/approve-hod", body)
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	h.ApproveHod(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newContext(http.MethodPatch, "/api/v1/leave/5/approve-hod", map[string]string{"status": "Maybe"})
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	h.ApproveHod(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListMinePaginates(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := leavemock.NewMockService(ctrl)
	h := leave.NewHandler(svc, zap.NewNop())

	rows := make([]leave.LeaveResponse, 12)
	for i := range rows {
		rows[i].ID = int64(i + 1)
	}
	svc.EXPECT().ListMine(gomock.Any(), eveActor).Return(rows, nil)

	c, w := newContext(http.MethodGet, "/api/v1/leave/mine?page=2&page_size=5", nil)
	h.ListMine(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)

	var page []leave.LeaveResponse
	assert.NoError(t, json.Unmarshal(env.Data, &page))
	if assert.Len(t, page, 5) {
		assert.Equal(t, int64(6), page[0].ID)
	}
	assert.EqualValues(t, 12, env.Meta["total"])
	assert.EqualValues(t, 3, env.Meta["totalPages"])
}

func TestHandler_BulkApprove(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := leavemock.NewMockService(ctrl)
	h := leave.NewHandler(svc, zap.NewNop())

	body := leave.BulkApproveRequest{IDs: []int64{1, 2, 3}, Status: leave.GateApproved}
	svc.EXPECT().BulkApprove(gomock.Any(), gomock.Any(), leave.GateAdmin, body).Return(leave.BulkResult{
		Successful: []int64{1, 2},
		Failed:     []leave.BulkFailure{{ID: 3, Error: "forbidden", StatusCode: http.StatusForbidden}},
	}, nil)

	c, w := newContext(http.MethodPost, "/api/v1/leave/bulk-approve-admin", body)
	h.BulkApproveAdmin(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var result leave.BulkResult
	assert.NoError(t, json.Unmarshal(decode(t, w).Data, &result))
	assert.Equal(t, []int64{1, 2}, result.Successful)
	assert.Equal(t, int64(3), result.Failed[0].ID)
}

func TestHandler_EmailAction(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := leavemock.NewMockService(ctrl)
	h := leave.NewHandler(svc, zap.NewNop())

	svc.EXPECT().EmailAction(gomock.Any(), "tok", "approve").
		Return(leave.EmailActionResponse{Message: "Leave request approved by Hank"}, nil)
	svc.EXPECT().EmailAction(gomock.Any(), "used", "approve").
		Return(leave.EmailActionResponse{}, leaveerrors.ErrEmailActionInvalid)

	c, w := newContext(http.MethodGet, "/api/v1/leave/email-action?token=tok&action=approve", nil)
	h.EmailAction(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "approved by Hank")

	c, w = newContext(http.MethodGet, "/api/v1/leave/email-action?token=used&action=approve", nil)
	h.EmailAction(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Calendar(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := leavemock.NewMockService(ctrl)
	h := leave.NewHandler(svc, zap.NewNop())

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	svc.EXPECT().CalendarFeed(gomock.Any(), eveActor, from, to).Return([]byte("BEGIN:VCALENDAR"), nil)

	c, w := newContext(http.MethodGet, "/api/v1/leave/calendar.ics?from=2024-06-01&to=2024-06-30", nil)
	h.Calendar(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "BEGIN:VCALENDAR", w.Body.String())

	c, w = newContext(http.MethodGet, "/api/v1/leave/calendar.ics?from=june", nil)
	h.Calendar(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_RequireRoleForAdminGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := leavemock.NewMockService(ctrl)

	enforcer, err := rbac.NewEnforcer()
	assert.NoError(t, err)
	rbacService, err := rbac.NewService(enforcer, zap.NewNop())
	assert.NoError(t, err)

	role := "hod"
	auth := func(c *gin.Context) {
		c.Set("user_id", int64(102))
		c.Set("employee_id", int64(2))
		c.Set("role", role)
		c.Next()
	}

	r := gin.New()
	leave.RegisterRoutes(r.Group("/api/v1"), leave.NewHandler(svc, zap.NewNop()), rbacService, auth)

	svc.EXPECT().Approve(gomock.Any(), gomock.Any(), int64(9), leave.GateHod, gomock.Any()).Return(leave.LeaveResponse{ID: 9}, nil)
	svc.EXPECT().EmailAction(gomock.Any(), "", "").Return(leave.EmailActionResponse{}, leaveerrors.ErrInvalidAction)

	send := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPatch, "/api/v1/leave/9/approve-hod", `{"status":"Approved"}`))
	assert.Equal(t, http.StatusForbidden, send(http.MethodPatch, "/api/v1/leave/9/approve-admin", `{"status":"Approved"}`))

	role = "employee"
	assert.Equal(t, http.StatusForbidden, send(http.MethodGet, "/api/v1/leave/all", ""))

	// public route, no auth context required
	assert.Equal(t, http.StatusBadRequest, send(http.MethodGet, "/api/v1/leave/email-action", ""))
}
