package realtime

import (
	"io"
	"net/http"
	"time"

	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const heartbeatInterval = 25 * time.Second

type StreamHandler struct {
	hub *Hub
}

func NewStreamHandler(hub *Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// Stream serves GET /events/stream as server-sent events.
func (h *StreamHandler) Stream(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("role")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}

	sub := h.hub.Subscribe(userID, role)
	defer sub.Close()

	// the server write timeout would otherwise end the stream
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	c.SSEvent("ready", gin.H{"user_id": userID, "role": role})
	c.Writer.Flush()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(ev.Type, ev.Data)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}

func RegisterRoutes(r gin.IRoutes, h *StreamHandler) {
	r.GET("/events/stream", h.Stream)
}
