package repository

import (
	"context"
	"errors"
	"fmt"

	"ledger/models"

	"gorm.io/gorm"
)

// UserLookupField 用户查询字段，封闭集合
type UserLookupField string

const (
	UserLookupByID    UserLookupField = "id"
	UserLookupByEmail UserLookupField = "email"
)

// 查询字段到数据库列的固定映射
var userLookupColumns = map[UserLookupField]string{
	UserLookupByID:    "id",
	UserLookupByEmail: "email",
}

// UserRepository 用户仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UserPatch 用户部分更新，nil 字段不参与更新
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// GetByField 按指定字段查找用户
func (r *UserRepository) GetByField(ctx context.Context, field UserLookupField, value interface{}) (*models.User, error) {
	column, ok := userLookupColumns[field]
	if !ok {
		return nil, fmt.Errorf("不支持的查询字段: %s", field)
	}

	var user models.User
	err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists 检查邮箱是否已被注册
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建用户
// 邮箱预检查只是友好提示，最终以唯一索引为准（并发注册时由约束兜底）
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	exists, err := r.EmailExists(ctx, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailExists
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailExists
		}
		return fmt.Errorf("%w: %v", ErrCouldNotCreate, err)
	}
	return nil
}

// Update 部分更新用户，只应用白名单字段
func (r *UserRepository) Update(ctx context.Context, userID uint, patch UserPatch) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Username != nil {
		updates["username"] = *patch.Username
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.PasswordHash != nil {
		updates["password_hash"] = *patch.PasswordHash
	}
	if len(updates) == 0 {
		return &user, nil
	}

	if err := r.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete 删除用户，外键级联删除其名下类别、消费记录和目标
func (r *UserRepository) Delete(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
