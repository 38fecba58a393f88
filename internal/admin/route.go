package admin

import (
	"dadaocheng/exploration/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, adminService *AdminService, jwtSecret string) {
	adminHandler := NewAdminHandler(adminService)

	admin := r.Group("/admin")
	{
		admin.POST("/login", adminHandler.Login)

		authorized := admin.Group("", middleware.AdminAuth(jwtSecret, adminService))
		{
			authorized.GET("/submissions", adminHandler.ListSubmissions)
			authorized.PUT("/submissions/:id/status", adminHandler.UpdateStatus)
			authorized.GET("/dashboard", adminHandler.Dashboard)
		}
	}
}
