package task

import "time"

// Task 任务表，静态参考数据
type Task struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TaskKey       string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"task_key"`
	TitleZh       string    `gorm:"type:varchar(255);not null" json:"title_zh"`
	TitleEn       string    `gorm:"type:varchar(255);not null" json:"title_en"`
	DescriptionZh string    `gorm:"type:text" json:"description_zh"`
	DescriptionEn string    `gorm:"type:text" json:"description_en"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// Keys 合法的任务键
var Keys = []string{"task1", "task2", "task3", "task4", "task5"}
