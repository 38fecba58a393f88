package main

import (
	"context"
	"flag"
	"time"

	"dadaocheng/exploration/config"
	"dadaocheng/exploration/internal/admin"
	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/logger"
	"dadaocheng/exploration/internal/model"

	"go.uber.org/zap"
)

// create-admin 建表、初始化组别与任务并创建默认管理员
func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.Must(conf.Log)
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := database.New(ctx, conf.Database, log)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer store.Close()

	if err := model.InitTable(store.DB(ctx)); err != nil {
		log.Fatal("建表失败", zap.Error(err))
	}
	log.Info("数据表已就绪")

	if err := model.Seed(store.DB(ctx), conf.Submission.MinGroup, conf.Submission.MaxGroup); err != nil {
		log.Fatal("初始化数据失败", zap.Error(err))
	}
	log.Info("组别与任务已初始化",
		zap.Int("min_group", conf.Submission.MinGroup),
		zap.Int("max_group", conf.Submission.MaxGroup),
	)

	adminService := admin.NewAdminService(store, conf.JWT.Secret, time.Duration(conf.JWT.ExpireTime)*time.Hour, log)
	created, err := adminService.EnsureDefaultAdmin(ctx, conf.Admin.Username, conf.Admin.Email, conf.Admin.Password)
	if err != nil {
		log.Fatal("创建默认管理员失败", zap.Error(err))
	}
	if !created {
		log.Warn("默认管理员已存在，跳过创建", zap.String("username", conf.Admin.Username))
		return
	}
	log.Info("默认管理员已创建",
		zap.String("username", conf.Admin.Username),
		zap.String("email", conf.Admin.Email),
	)
}
