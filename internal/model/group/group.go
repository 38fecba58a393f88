package group

import (
	"fmt"
	"time"
)

// Group 参与组别表，由 create-admin 初始化，运行期只读
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GroupNumber int       `gorm:"not null;uniqueIndex;check:chk_groups_number,group_number >= 1 AND group_number <= 25" json:"group_number"`
	GroupName   string    `gorm:"type:varchar(255)" json:"group_name"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

// DisplayName 第N組
func DisplayName(number int) string {
	return fmt.Sprintf("第%d組", number)
}

// EnglishName Group N
func EnglishName(number int) string {
	return fmt.Sprintf("Group %d", number)
}
