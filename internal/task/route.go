package task

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, taskService *TaskService) {
	taskHandler := NewTaskHandler(taskService)

	tasks := r.Group("/tasks")
	{
		tasks.GET("", taskHandler.List)
		tasks.GET("/:taskKey", taskHandler.Get)
	}
}
