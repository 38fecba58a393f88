package config

import (
	"time"

	"dadaocheng/exploration/packages/email"
)

// AppConfig 应用配置结构
type AppConfig struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	Log        LogConfig        `koanf:"log"`
	JWT        JWTConfig        `koanf:"jwt"`
	Upload     UploadConfig     `koanf:"upload"`
	Submission SubmissionConfig `koanf:"submission"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	CORS       CORSConfig       `koanf:"cors"`
	SMTP       email.Config     `koanf:"smtp"`
	Notify     NotifyConfig     `koanf:"notify"`
	Admin      AdminConfig      `koanf:"admin"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Mode            string        `koanf:"mode"` // debug, release, test
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host           string `koanf:"host"`
	Port           int    `koanf:"port"`
	Username       string `koanf:"username"`
	Password       string `koanf:"password"`
	Database       string `koanf:"database"`
	SSLMode        bool   `koanf:"sslmode"`
	LogLevel       string `koanf:"log_level"`
	MaxOpenConns   int    `koanf:"max_open_conns"`
	MaxIdleConns   int    `koanf:"max_idle_conns"`
	MaxLifetime    int    `koanf:"max_lifetime"`    // 秒
	IdleTimeout    int    `koanf:"idle_timeout"`    // 秒
	ConnectTimeout int    `koanf:"connect_timeout"` // 秒
}

// RedisConfig Host 为空时限流回退到进程内存
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
	Output string `koanf:"output"` // stdout, file
	Path   string `koanf:"path"`   // 日志文件路径
}

type JWTConfig struct {
	Secret     string `koanf:"secret"`
	ExpireTime int    `koanf:"expire_time"` // 小时
}

type UploadConfig struct {
	BaseDir      string   `koanf:"base_dir"`      // uploads/ 所在目录
	MaxFileSize  int64    `koanf:"max_file_size"` // 单文件字节数上限
	MaxFiles     int      `koanf:"max_files"`
	AllowedTypes []string `koanf:"allowed_types"` // 扩展名，不带点
}

// SubmissionConfig 允许投稿的组别范围
type SubmissionConfig struct {
	MinGroup int `koanf:"min_group"`
	MaxGroup int `koanf:"max_group"`
}

type RateLimitConfig struct {
	APILimit    int `koanf:"api_limit"`
	UploadLimit int `koanf:"upload_limit"`
	Window      int `koanf:"window"` // 秒
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

// NotifyConfig 新投稿通知，Recipients 为空时不发送
type NotifyConfig struct {
	From       string   `koanf:"from"`
	Recipients []string `koanf:"recipients"`
}

// AdminConfig create-admin 使用的默认管理员
type AdminConfig struct {
	Username string `koanf:"username"`
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
}
