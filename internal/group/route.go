package group

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, groupService *GroupService) {
	groupHandler := NewGroupHandler(groupService)

	groups := r.Group("/groups")
	{
		groups.GET("", groupHandler.List)
		groups.GET("/available", groupHandler.Available)
		groups.GET("/:groupNumber", groupHandler.Get)
	}
}
