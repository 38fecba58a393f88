// Package database 数据访问层
// Store 由调用方构造并注入，不持有包级连接池
package database

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"dadaocheng/exploration/config"
	dbPkg "dadaocheng/exploration/packages/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// queryLogLen 日志中保留的 SQL 长度
const queryLogLen = 50

// Store 参数化查询与事务封装
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// New 根据配置建立连接池
func New(ctx context.Context, conf config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	db, err := dbPkg.OpenPostgres(ctx, dbPkg.PostgresConfig{
		Username:        conf.Username,
		Password:        conf.Password,
		Host:            conf.Host,
		Port:            conf.Port,
		Database:        conf.Database,
		SSLMode:         conf.SSLMode,
		LogLevel:        conf.LogLevel,
		MaxIdleConns:    conf.MaxIdleConns,
		MaxOpenConns:    conf.MaxOpenConns,
		ConnMaxLifetime: time.Duration(conf.MaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(conf.IdleTimeout) * time.Second,
		ConnectTimeout:  time.Duration(conf.ConnectTimeout) * time.Second,
	}, log)
	if err != nil {
		return nil, Classify(err)
	}
	return NewStore(db, log), nil
}

// NewStore 包装已有连接，测试中传入事务
func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// DB 返回绑定 ctx 的 gorm 句柄，供仓储层使用
func (s *Store) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Query 执行只读查询并扫描到 dest
func (s *Store) Query(ctx context.Context, dest any, query string, args ...any) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error
	return s.logResult(query, start, err)
}

// Exec 执行写语句，返回受影响行数
func (s *Store) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	start := time.Now()
	res := s.db.WithContext(ctx).Exec(query, args...)
	return res.RowsAffected, s.logResult(query, start, res.Error)
}

// WithTx 在单个事务内执行 fn
// fn 返回 nil 时提交，返回错误或 panic 时回滚，连接总会归还连接池
func (s *Store) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(fn)
	if err != nil {
		s.log.Debug("事务已回滚", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return Classify(err)
	}
	s.log.Debug("事务已提交", zap.Duration("duration", time.Since(start)))
	return nil
}

// Ping 检查数据库连通性
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return ErrStoreUnavailable.Wrap(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ErrStoreUnavailable.Wrap(err)
	}
	return nil
}

// Close 关闭连接池
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("关闭数据库连接失败: %w", err)
	}
	return nil
}

func (s *Store) logResult(query string, start time.Time, err error) error {
	fields := []zap.Field{
		zap.String("query", truncate(query, queryLogLen)),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		s.log.Error("查询失败", append(fields, zap.Error(err))...)
		return Classify(err)
	}
	s.log.Debug("执行查询", fields...)
	return nil
}

// truncate 按字符截断
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
