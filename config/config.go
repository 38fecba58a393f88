// Package config 配置管理
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// sections 允许通过环境变量覆盖的顶级配置节
var sections = map[string]bool{
	"server": true, "database": true, "redis": true, "log": true, "jwt": true,
	"upload": true, "submission": true, "rate_limit": true, "cors": true,
	"smtp": true, "notify": true, "admin": true,
}

// Load 加载配置文件
// 顺序：.env -> config.yaml -> 环境变量（覆盖配置文件）
func Load(configPath string) (*AppConfig, error) {
	// 首先加载 .env 文件到环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("警告: 无法加载 .env 文件: %v", err)
	}

	k := koanf.New(".")

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
	}

	// DATABASE_MAX_OPEN_CONNS -> database.max_open_conns
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("加载环境变量失败: %w", err)
	}

	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	conf.applyDefaults()

	// 转换时间单位
	conf.Server.ReadTimeout *= time.Second
	conf.Server.WriteTimeout *= time.Second
	conf.Server.ShutdownTimeout *= time.Second

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// MustLoad 加载配置，失败则退出
func MustLoad(configPath string) *AppConfig {
	conf, err := Load(configPath)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	return conf
}

// envKey 将环境变量名映射为配置键，只认已知的配置节
func envKey(s string) string {
	key := strings.ToLower(s)
	for section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return ""
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 60
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 300
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = 2
	}
	if c.Database.IdleTimeout == 0 {
		c.Database.IdleTimeout = 30
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}

	if c.JWT.ExpireTime == 0 {
		c.JWT.ExpireTime = 24
	}

	if c.Upload.BaseDir == "" {
		c.Upload.BaseDir = "."
	}
	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = 100 * 1024 * 1024
	}
	if c.Upload.MaxFiles == 0 {
		c.Upload.MaxFiles = 10
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = []string{
			"jpg", "jpeg", "png", "gif", "mp4", "mov", "avi", "pdf", "doc", "docx", "ppt", "pptx",
		}
	}

	if c.Submission.MinGroup == 0 {
		c.Submission.MinGroup = 2
	}
	if c.Submission.MaxGroup == 0 {
		c.Submission.MaxGroup = 25
	}

	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = 15 * 60
	}
	if c.RateLimit.APILimit == 0 {
		c.RateLimit.APILimit = 100
	}
	if c.RateLimit.UploadLimit == 0 {
		c.RateLimit.UploadLimit = 10
	}

	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{"http://localhost:5173"}
	}
}

// Validate 校验必填配置
func (c *AppConfig) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret 不能为空")
	}
	if c.Submission.MinGroup > c.Submission.MaxGroup {
		return fmt.Errorf("submission.min_group (%d) 不能大于 max_group (%d)",
			c.Submission.MinGroup, c.Submission.MaxGroup)
	}
	if c.Upload.MaxFiles < 0 || c.Upload.MaxFileSize < 0 {
		return errors.New("upload 限制不能为负数")
	}
	return nil
}

// Addr 服务监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
