// Package health 健康检查
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pingTimeout 数据库探测超时
const pingTimeout = 2 * time.Second

// Pinger *database.Store 实现
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status 健康检查响应
type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Uptime    float64   `json:"uptime"` // 秒
	Version   string    `json:"version"`
}

type HealthHandler struct {
	db        Pinger
	version   string
	startedAt time.Time
	log       *zap.Logger
}

func NewHealthHandler(db Pinger, version string, log *zap.Logger) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{db: db, version: version, startedAt: time.Now(), log: log}
}

// Check 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} Status
// @Failure 503 {object} Status
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	s := Status{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Database:  "connected",
		Uptime:    time.Since(h.startedAt).Seconds(),
		Version:   h.version,
	}

	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("数据库健康检查失败", zap.Error(err))
		s.Status = "ERROR"
		s.Database = "disconnected"
		c.JSON(http.StatusServiceUnavailable, s)
		return
	}
	c.JSON(http.StatusOK, s)
}

func RegisterRoutes(r gin.IRoutes, h *HealthHandler) {
	r.GET("/health", h.Check)
}
