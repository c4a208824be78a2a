package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/rbac"
	rbacmock "go-leave/internal/rbac/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		role       string
		setup      func(m *rbacmock.MockService)
		wantStatus int
	}{
		{
			name: "allowed",
			role: "hod",
			setup: func(m *rbacmock.MockService) {
				m.EXPECT().
					Enforce(rbac.EnforceRequest{Role: "hod", Resource: "leave", Action: "approve_hod"}).
					Return(true, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "denied",
			role: "employee",
			setup: func(m *rbacmock.MockService) {
				m.EXPECT().Enforce(gomock.Any()).Return(false, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "enforcer error",
			role: "hod",
			setup: func(m *rbacmock.MockService) {
				m.EXPECT().Enforce(gomock.Any()).Return(false, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "no role",
			setup:      func(m *rbacmock.MockService) {},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := rbacmock.NewMockService(ctrl)
			tt.setup(svc)

			r := gin.New()
			r.GET("/x",
				func(c *gin.Context) {
					if tt.role != "" {
						c.Set("role", tt.role)
					}
				},
				RBACAuthorize(svc, "leave", "approve_hod"),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
