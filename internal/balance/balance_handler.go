package balance

import (
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("balance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) LeaveTypes(c *gin.Context) {
	resp, err := h.service.LeaveTypes(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		if httpErr.Status >= http.StatusInternalServerError {
			h.logger.Error("list leave types failed", zap.Error(err))
		}
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
