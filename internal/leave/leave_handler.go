package leave

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		UserID:     c.GetInt64("user_id"),
		EmployeeID: c.GetInt64("employee_id"),
		Role:       c.GetString("role"),
		Name:       c.GetString("name"),
		Email:      c.GetString("email"),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("leave request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	appErr := apperror.MapValidationError(err)
	response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, err.Error())
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		appErr := apperror.InvalidField("id")
		response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
		return 0, false
	}
	return id, true
}

// releaseIdempotency drops the in-flight lock set by middleware.Idempotency.
func (h *Handler) releaseIdempotency(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		h.rdb.Del(c.Request.Context(), lk)
	}
}

func (h *Handler) rememberResponse(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	ck := c.GetString("idempotency_cache_key")
	if ck == "" {
		return
	}
	if payload, err := json.Marshal(resp); err == nil {
		_ = h.rdb.Set(c.Request.Context(), ck, payload, idempotencyTTL).Err()
	}
}

func (h *Handler) Create(c *gin.Context) {
	defer h.releaseIdempotency(c)

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.rememberResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOverlap(c *gin.Context) {
	var req CheckOverlapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.CheckOverlap(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	resp, err := h.service.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.paginated(c, resp)
}

func (h *Handler) ListAll(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.ListAll(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.paginated(c, resp)
}

func (h *Handler) paginated(c *gin.Context, rows []LeaveResponse) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	start, end := response.Paginate(len(rows), page, pageSize)
	meta := response.NewPaginationMeta(int64(len(rows)), page, pageSize)
	response.Success(c, http.StatusOK, rows[start:end], &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ApproveHod(c *gin.Context)   { h.approve(c, GateHod) }
func (h *Handler) ApproveAdmin(c *gin.Context) { h.approve(c, GateAdmin) }

func (h *Handler) approve(c *gin.Context, gate Gate) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ApproveLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), actorFrom(c), id, gate, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BulkApproveHod(c *gin.Context)   { h.bulkApprove(c, GateHod) }
func (h *Handler) BulkApproveAdmin(c *gin.Context) { h.bulkApprove(c, GateAdmin) }

func (h *Handler) bulkApprove(c *gin.Context, gate Gate) {
	defer h.releaseIdempotency(c)

	var req BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.BulkApprove(c.Request.Context(), actorFrom(c), gate, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.rememberResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id}, nil)
}

func (h *Handler) EmailAction(c *gin.Context) {
	resp, err := h.service.EmailAction(c.Request.Context(), c.Query("token"), c.Query("action"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Balances(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1900 {
			appErr := apperror.InvalidField("year")
			response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
			return
		}
		year = y
	}

	resp, err := h.service.Balances(c.Request.Context(), actorFrom(c), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Calendar defaults to the current calendar year when from/to are omitted.
func (h *Handler) Calendar(c *gin.Context) {
	now := time.Now()
	from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.UTC)

	if raw := c.Query("from"); raw != "" {
		d, err := parseDate("from", raw)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		from = d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := parseDate("to", raw)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		to = d
	}

	body, err := h.service.CalendarFeed(c.Request.Context(), actorFrom(c), from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="leave.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}
