package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(newTestService(t))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("role", user.RoleHod)
		c.Next()
	})
	RegisterRoutes(router, handler)

	tests := []struct {
		name    string
		body    EnforceRequest
		allowed bool
	}{
		{"own role decides", EnforceRequest{Role: user.RoleAdmin, Resource: ResourceLeave, Action: ActionApproveAdmin}, false},
		{"hod grant", EnforceRequest{Resource: ResourceLeave, Action: ActionApproveHod}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(tt.body)
			req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(jsonBody))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			var env envelope
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			var resp EnforceResponse
			assert.NoError(t, json.Unmarshal(env.Data, &resp))
			assert.Equal(t, tt.allowed, resp.Allowed)
		})
	}
}

func TestHandler_EnforceMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(newTestService(t))
	router := gin.New()
	RegisterRoutes(router, handler)

	req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"resource":"leave"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
