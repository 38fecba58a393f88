package submission

import "github.com/gin-gonic/gin"

// RegisterRoutes uploadLimit 只作用于提交接口
func RegisterRoutes(r *gin.RouterGroup, submissionService *SubmissionService, parser *FormParser, uploadLimit gin.HandlerFunc) {
	submissionHandler := NewSubmissionHandler(submissionService, parser)

	submissions := r.Group("/submissions")
	{
		submissions.GET("", submissionHandler.List)
		submissions.GET("/statistics", submissionHandler.Statistics)
		submissions.GET("/:id", submissionHandler.Get)
		if uploadLimit != nil {
			submissions.POST("", uploadLimit, submissionHandler.Create)
		} else {
			submissions.POST("", submissionHandler.Create)
		}
	}
}
