package testutils

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/model"
	dbPkg "dadaocheng/exploration/packages/database"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	migrateOnce sync.Once
	migrateErr  error
)

// TestDSN 优先读取 TEST_DATABASE_DSN，否则由 POSTGRES_* 拼接
func TestDSN() string {
	if dsn := os.Getenv("TEST_DATABASE_DSN"); dsn != "" {
		return dsn
	}
	port, _ := strconv.Atoi(envOr("POSTGRES_PORT", "5433"))
	return dbPkg.PostgresConfig{
		Host:           envOr("POSTGRES_HOST", "localhost"),
		Port:           port,
		Username:       envOr("POSTGRES_USER", "test"),
		Password:       envOr("POSTGRES_PASSWORD", "test"),
		Database:       envOr("POSTGRES_DB", "dadaocheng_test"),
		ConnectTimeout: 2 * time.Second,
	}.DSN()
}

// OpenTestDB 连接测试库并建表，数据库不可达时跳过测试
// 写入会提交，由调用方清理
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.Open(TestDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("测试数据库不可用: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取连接池失败: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := sqlDB.PingContext(context.Background()); err != nil {
		t.Skipf("测试数据库不可用: %v", err)
	}

	migrateOnce.Do(func() { migrateErr = model.InitTable(db) })
	if migrateErr != nil {
		t.Fatalf("建表失败: %v", migrateErr)
	}
	return db
}

// SetupTestDB 返回测试结束时回滚的事务
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	tx := OpenTestDB(t).Begin()
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

// SetupTestStore 以回滚事务构造 Store
func SetupTestStore(t *testing.T) *database.Store {
	t.Helper()
	return database.NewStore(SetupTestDB(t), zap.NewNop())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
