package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func TestPostgresConfig_DSN(t *testing.T) {
	c := PostgresConfig{
		Username: "dadaocheng",
		Password: "secret",
		Database: "exploration",
	}.withDefaults()

	assert.Equal(t, "host=localhost port=5432 user=dadaocheng password=secret dbname=exploration sslmode=disable connect_timeout=2", c.DSN())

	c.SSLMode = true
	c.ConnectTimeout = 500 * time.Millisecond
	assert.Contains(t, c.DSN(), "sslmode=require")
	assert.Contains(t, c.DSN(), "connect_timeout=1")
}

func TestPostgresConfig_WithDefaultsKeepsExplicitValues(t *testing.T) {
	c := PostgresConfig{Port: 6543, MaxOpenConns: 5}.withDefaults()

	assert.Equal(t, 6543, c.Port)
	assert.Equal(t, 5, c.MaxOpenConns)
	assert.Equal(t, 10, c.MaxIdleConns)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestNewGormLogger_UnknownLevelFallsBackToWarn(t *testing.T) {
	assert.NotNil(t, newGormLogger(zap.NewNop(), "verbose"))
	assert.Equal(t, logger.Info, gormLevels["info"])
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", RedisConfig{Host: "localhost"}.Addr())
	assert.Equal(t, "10.0.0.5:6380", RedisConfig{Host: "10.0.0.5", Port: 6380}.Addr())
}
