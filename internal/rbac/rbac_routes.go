package rbac

import "github.com/gin-gonic/gin"

// RegisterRoutes expects r to be behind the auth middleware.
func RegisterRoutes(r gin.IRoutes, handler *Handler) {
	r.POST("/rbac/enforce", handler.Enforce)
	r.GET("/rbac/permissions", handler.MyPermissions)
}
