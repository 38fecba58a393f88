package model

import (
	"fmt"

	"dadaocheng/exploration/internal/model/admin"
	"dadaocheng/exploration/internal/model/file"
	"dadaocheng/exploration/internal/model/group"
	"dadaocheng/exploration/internal/model/submission"
	"dadaocheng/exploration/internal/model/task"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构，顺序即外键依赖顺序
	err := db.AutoMigrate(
		&group.Group{},
		&task.Task{},
		&submission.Submission{},
		&file.File{},
		&admin.Admin{},
	)
	if err != nil {
		return err
	}

	// has-many 外键建在 files 表上，需单独创建
	m := db.Migrator()
	if !m.HasConstraint(&submission.Submission{}, "Files") {
		if err := m.CreateConstraint(&submission.Submission{}, "Files"); err != nil {
			return fmt.Errorf("创建 files 外键失败: %w", err)
		}
	}
	return nil
}

// SeedTasks 五个探索任务
var SeedTasks = []task.Task{
	{
		TaskKey:       "task1",
		TitleZh:       "大稻埕教學素材收集家",
		TitleEn:       "Dadaocheng Teaching Material Collector",
		DescriptionZh: "從真實場域中提取教學資源，思考如何將大稻埕的學習素材應用於教學領域。",
		DescriptionEn: "Extract teaching resources from real venues and consider how to apply Dadaocheng learning materials to teaching fields.",
	},
	{
		TaskKey:       "task2",
		TitleZh:       "大稻埕主題地圖規劃師",
		TitleEn:       "Dadaocheng Themed Map Planner",
		DescriptionZh: "規劃具主題性的導覽路線，發掘大稻埕的特色與趣味。",
		DescriptionEn: "Plan thematic tour routes and discover the characteristics and interests of Dadaocheng.",
	},
	{
		TaskKey:       "task3",
		TitleZh:       "大稻埕前世今生探究者",
		TitleEn:       "Dadaocheng Past and Present Explorer",
		DescriptionZh: "深入了解地方環境與歷史縱深，探究大稻埕的過去與現在。",
		DescriptionEn: "Deeply understand the local environment and historical depth, exploring the past and present of Dadaocheng.",
	},
	{
		TaskKey:       "task4",
		TitleZh:       "大稻埕YouTuber",
		TitleEn:       "Dadaocheng YouTuber",
		DescriptionZh: "將戶外探訪內容轉化為具吸引力且能有效傳達資訊的影音介紹。",
		DescriptionEn: "Transform outdoor exploration content into attractive and effective audio-visual introductions.",
	},
	{
		TaskKey:       "task5",
		TitleZh:       "大稻埕自主學習者",
		TitleEn:       "Dadaocheng Self-directed Learner",
		DescriptionZh: "高度彈性的自主學習任務，依據個人興趣與專業規劃學習活動。",
		DescriptionEn: "Highly flexible self-directed learning tasks, planning learning activities based on personal interests and expertise.",
	},
}

// Seed 初始化组别与任务，重复执行不会产生重复数据
func Seed(db *gorm.DB, minGroup, maxGroup int) error {
	groups := make([]group.Group, 0, maxGroup-minGroup+1)
	for i := minGroup; i <= maxGroup; i++ {
		groups = append(groups, group.Group{
			GroupNumber: i,
			GroupName:   group.DisplayName(i),
			IsActive:    true,
		})
	}
	if len(groups) > 0 {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_number"}},
			DoNothing: true,
		}).Create(&groups).Error
		if err != nil {
			return fmt.Errorf("初始化组别失败: %w", err)
		}
	}

	tasks := make([]task.Task, len(SeedTasks))
	copy(tasks, SeedTasks)
	for i := range tasks {
		tasks[i].IsActive = true
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "task_key"}},
		DoNothing: true,
	}).Create(&tasks).Error
	if err != nil {
		return fmt.Errorf("初始化任务失败: %w", err)
	}
	return nil
}
