package models

import (
	"time"
)

// User 用户模型
// 所有业务数据行都以 user_id 归属到某个用户，删除用户时级联删除其全部数据
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:50;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
