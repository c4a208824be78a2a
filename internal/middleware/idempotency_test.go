package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newIdempotencyRouter(t *testing.T) (*gin.Engine, redismock.ClientMock, *int) {
	gin.SetMode(gin.TestMode)
	rdb, mock := redismock.NewClientMock()
	calls := 0

	r := gin.New()
	r.POST("/leave",
		func(c *gin.Context) { c.Set("user_id", int64(5)) },
		Idempotency(rdb, zap.NewNop()),
		func(c *gin.Context) {
			calls++
			c.JSON(http.StatusCreated, gin.H{"lock": c.GetString("idempotency_lock_key")})
		},
	)
	return r, mock, &calls
}

func TestIdempotency_FirstRequestTakesLock(t *testing.T) {
	r, mock, calls := newIdempotencyRouter(t)

	mock.ExpectGet("idemp:/leave:5:abc").RedisNil()
	mock.ExpectSetNX("idemp:/leave:5:abc:lock", "locked", idempotencyLockTTL).SetVal(true)

	req := httptest.NewRequest(http.MethodPost, "/leave", nil)
	req.Header.Set("Idempotency-Key", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, *calls)
	assert.Contains(t, w.Body.String(), "idemp:/leave:5:abc:lock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	r, mock, calls := newIdempotencyRouter(t)

	mock.ExpectGet("idemp:/leave:5:abc").SetVal(`{"id":42}`)

	req := httptest.NewRequest(http.MethodPost, "/leave", nil)
	req.Header.Set("Idempotency-Key", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *calls)
	assert.JSONEq(t, `{"ok":true,"data":{"id":42}}`, w.Body.String())
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_InFlightConflict(t *testing.T) {
	r, mock, calls := newIdempotencyRouter(t)

	mock.ExpectGet("idemp:/leave:5:abc").RedisNil()
	mock.ExpectSetNX("idemp:/leave:5:abc:lock", "locked", idempotencyLockTTL).SetVal(false)

	req := httptest.NewRequest(http.MethodPost, "/leave", nil)
	req.Header.Set("Idempotency-Key", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, *calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	r, mock, calls := newIdempotencyRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leave", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, *calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
