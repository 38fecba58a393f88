package file

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, fileService *FileService) {
	fileHandler := NewFileHandler(fileService)

	files := r.Group("/files")
	{
		files.GET("/:id/download", fileHandler.Download)
		files.GET("/:id/info", fileHandler.Info)
		files.GET("/submission/:id", fileHandler.ListBySubmission)
	}
}
