package models

import (
	"time"
)

// Expense 消费记录模型
// category_id 必须引用同一用户名下的类别，由服务层在写入前校验
type Expense struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	CategoryID uint      `json:"category_id" gorm:"index;not null"`
	Amount     float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	OccurredAt time.Time `json:"occurred_at" gorm:"index;not null"`
	Title      string    `json:"title" gorm:"size:50;not null"`
	Note       string    `json:"note" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	User       User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Category   Category  `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}
