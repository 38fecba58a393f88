package route

import (
	"net/http"
	"time"

	"dadaocheng/exploration/config"
	_ "dadaocheng/exploration/docs"
	"dadaocheng/exploration/internal/admin"
	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/file"
	"dadaocheng/exploration/internal/group"
	"dadaocheng/exploration/internal/health"
	"dadaocheng/exploration/internal/middleware"
	"dadaocheng/exploration/internal/notify"
	"dadaocheng/exploration/internal/storage"
	"dadaocheng/exploration/internal/submission"
	"dadaocheng/exploration/internal/task"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Version API 版本
const Version = "1.0.0"

// Deps 路由依赖，由 main 构造
type Deps struct {
	Config        *config.AppConfig
	Store         *database.Store
	Storage       *storage.Storage
	Notifier      notify.Notifier
	APILimiter    middleware.Limiter
	UploadLimiter middleware.Limiter
	Logger        *zap.Logger
}

func initRoute(r *gin.Engine, d Deps) {
	conf := d.Config

	// 初始化依赖
	submissionService := submission.NewSubmissionService(d.Store, d.Storage, d.Notifier, d.Logger)
	formParser := submission.NewFormParser(d.Storage, conf.Upload, conf.Submission)
	fileService := file.NewFileService(d.Store, d.Storage, d.Logger)
	groupService := group.NewGroupService(d.Store)
	taskService := task.NewTaskService(d.Store)
	adminService := admin.NewAdminService(d.Store, conf.JWT.Secret,
		time.Duration(conf.JWT.ExpireTime)*time.Hour, d.Logger)

	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	health.RegisterRoutes(r, health.NewHealthHandler(d.Store, Version, d.Logger))
	r.GET("/", index)

	api := r.Group("/api")
	if d.APILimiter != nil {
		api.Use(middleware.RateLimit(d.APILimiter, d.Logger))
	}
	{
		var uploadLimit gin.HandlerFunc
		if d.UploadLimiter != nil {
			uploadLimit = middleware.RateLimit(d.UploadLimiter, d.Logger)
		}
		submission.RegisterRoutes(api, submissionService, formParser, uploadLimit)
		file.RegisterRoutes(api, fileService)
		group.RegisterRoutes(api, groupService)
		task.RegisterRoutes(api, taskService)
		admin.RegisterRoutes(api, adminService, conf.JWT.Secret)
	}

	r.NoRoute(notFound)
}

func SetupRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop{}
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.Recovery(d.Logger),
	)

	r.Use(securityHeaders())
	// 附件下载由 ServeContent 处理 Range，不压缩
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPathsRegexs([]string{`^/api/files/[^/]+/download$`}),
	))

	// 设置跨域请求
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	}))

	initRoute(r, d)

	return r
}

// securityHeaders 安全响应头，附件允许被前端跨域嵌入
func securityHeaders() gin.HandlerFunc {
	headers := secure.New(secure.Config{
		STSSeconds:            15552000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self'; img-src 'self' data: https:; connect-src 'self'",
	})
	return func(c *gin.Context) {
		c.Header("Cross-Origin-Resource-Policy", "cross-origin")
		headers(c)
	}
}

func index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "大稻埕探索專案 API",
		"version": Version,
		"endpoints": gin.H{
			"health":      "/health",
			"submissions": "/api/submissions",
			"files":       "/api/files",
			"groups":      "/api/groups",
			"tasks":       "/api/tasks",
			"admin":       "/api/admin",
		},
		"documentation": "/swagger/index.html",
	})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error":   "Route not found",
		"message": "The route " + c.Request.URL.Path + " does not exist on this server.",
	})
}
