package models

import (
	"time"
)

// Goal 月度消费上限目标
// 用户的"当前目标"为最新创建的一条（created_at 最大，相同时取 id 最大）
type Goal struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	GoalLimit float64   `json:"goal_limit" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Goal) TableName() string {
	return "goals"
}
