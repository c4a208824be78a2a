package balance

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to be behind the auth middleware.
func RegisterRoutes(r gin.IRoutes, handler *Handler, rbacService middleware.RBACService) {
	r.GET("/leave-types", middleware.RBACAuthorize(rbacService, rbac.ResourceBalance, rbac.ActionRead), handler.LeaveTypes)
}
