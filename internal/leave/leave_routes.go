package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// email links are opened by hand; a small burst covers retries
const (
	emailActionRate  = rate.Limit(0.5)
	emailActionBurst = 5
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	auth gin.HandlerFunc,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	allow := func(resource, action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, resource, action)
	}

	// write guards POST routes with Idempotency-Key replay when redis is available.
	write := func(resource, action string) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{allow(resource, action)}
		if redisClient != nil {
			chain = append(chain, middleware.Idempotency(redisClient, nil))
		}
		return chain
	}

	group := r.Group("/leave")

	group.GET("/email-action", middleware.RateLimitByIP(emailActionRate, emailActionBurst), handler.EmailAction)

	secured := group.Group("")
	secured.Use(auth)
	{
		secured.POST("", append(write(rbac.ResourceLeave, rbac.ActionCreate), handler.Create)...)
		secured.POST("/check-overlap", allow(rbac.ResourceLeave, rbac.ActionCreate), handler.CheckOverlap)
		secured.GET("/mine", allow(rbac.ResourceLeave, rbac.ActionRead), handler.ListMine)
		secured.GET("/all", allow(rbac.ResourceLeave, rbac.ActionList), handler.ListAll)
		secured.GET("/balances", allow(rbac.ResourceBalance, rbac.ActionRead), handler.Balances)
		secured.GET("/calendar.ics", allow(rbac.ResourceCalendar, rbac.ActionRead), handler.Calendar)

		secured.POST("/bulk-approve-hod", append(write(rbac.ResourceLeave, rbac.ActionApproveHod), handler.BulkApproveHod)...)
		secured.POST("/bulk-approve-admin", append(write(rbac.ResourceLeave, rbac.ActionApproveAdmin), handler.BulkApproveAdmin)...)

		secured.GET("/:id", allow(rbac.ResourceLeave, rbac.ActionRead), handler.GetByID)
		secured.PATCH("/:id", allow(rbac.ResourceLeave, rbac.ActionUpdate), handler.Update)
		secured.DELETE("/:id", allow(rbac.ResourceLeave, rbac.ActionDelete), handler.Delete)
		secured.PATCH("/:id/approve-hod", allow(rbac.ResourceLeave, rbac.ActionApproveHod), handler.ApproveHod)
		secured.PATCH("/:id/approve-admin", allow(rbac.ResourceLeave, rbac.ActionApproveAdmin), handler.ApproveAdmin)
	}
}
