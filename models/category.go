package models

// Category 消费类别，由用户自行维护
// (user_id, name) 唯一：同一用户不能有两个同名类别
type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"uniqueIndex:uniq_categories_user_name;not null"`
	Name        string `json:"name" gorm:"size:20;uniqueIndex:uniq_categories_user_name;not null"`
	Description string `json:"description" gorm:"type:text"`
	User        User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}
