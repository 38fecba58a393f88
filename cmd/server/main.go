package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dadaocheng/exploration/config"
	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/logger"
	"dadaocheng/exploration/internal/middleware"
	"dadaocheng/exploration/internal/notify"
	"dadaocheng/exploration/internal/route"
	"dadaocheng/exploration/internal/storage"
	dbPkg "dadaocheng/exploration/packages/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title 大稻埕探索 API
// @version 1.0
// @description 组别成果投稿、文件下载与管理员审核
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	conf := config.MustLoad("config.yaml")

	log := logger.Must(conf.Log)
	defer log.Sync()

	if conf.Server.Mode != "" {
		gin.SetMode(conf.Server.Mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. 初始化数据库
	store, err := database.New(ctx, conf.Database, log)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer store.Close()

	// 3. 限流与通知
	apiLimiter, uploadLimiter, closeRedis := newLimiters(ctx, conf, log)
	defer closeRedis()

	notifier, err := notify.New(conf.SMTP, conf.Notify, log)
	if err != nil {
		log.Fatal("通知初始化失败", zap.Error(err))
	}

	// 4. 设置路由
	r := route.SetupRouter(route.Deps{
		Config:        conf,
		Store:         store,
		Storage:       storage.New(conf.Upload.BaseDir, conf.Upload.MaxFileSize, log),
		Notifier:      notifier,
		APILimiter:    apiLimiter,
		UploadLimiter: uploadLimiter,
		Logger:        log,
	})

	// 5. 启动服务
	srv := &http.Server{
		Addr:         conf.Server.Addr(),
		Handler:      r,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	go func() {
		log.Info("服务已启动", zap.String("addr", srv.Addr), zap.String("version", route.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("服务关闭失败", zap.Error(err))
	}
	if n, ok := notifier.(*notify.EmailNotifier); ok {
		if err := n.Wait(shutdownCtx); err != nil {
			log.Warn("等待通知发送超时", zap.Error(err))
		}
	}
	log.Info("服务已关闭")
}

// newLimiters 配置了 Redis 时使用 Redis 计数，否则使用进程内计数
func newLimiters(ctx context.Context, conf *config.AppConfig, log *zap.Logger) (api, upload middleware.Limiter, closeFn func()) {
	window := time.Duration(conf.RateLimit.Window) * time.Second

	if conf.Redis.Host != "" {
		rc, err := dbPkg.OpenRedis(ctx, dbPkg.RedisConfig{
			Host:     conf.Redis.Host,
			Port:     conf.Redis.Port,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
			PoolSize: conf.Redis.PoolSize,
		}, log)
		if err == nil {
			return middleware.NewRedisLimiter(rc, middleware.PrefixAPI, conf.RateLimit.APILimit, window),
				middleware.NewRedisLimiter(rc, middleware.PrefixUpload, conf.RateLimit.UploadLimit, window),
				func() { rc.Close() }
		}
		log.Warn("Redis 不可用，限流使用进程内计数", zap.Error(err))
	}

	return middleware.NewMemoryLimiter(ctx, conf.RateLimit.APILimit, window),
		middleware.NewMemoryLimiter(ctx, conf.RateLimit.UploadLimit, window),
		func() {}
}
