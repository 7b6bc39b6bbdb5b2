package repository

import (
	"context"
	"errors"
	"time"

	"ledger/models"

	"gorm.io/gorm"
)

// PasswordResetRepository 密码重置验证码仓储
type PasswordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository 创建密码重置仓储
func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create 保存验证码
func (r *PasswordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

// GetActiveForUser 获取用户最近一条未使用且未过期的验证码
func (r *PasswordResetRepository) GetActiveForUser(ctx context.Context, userID uint) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND used = ? AND expires_at > ?", userID, false, time.Now()).
		Order("created_at DESC").
		First(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

// GetByEmailAndCode 按邮箱和验证码查找
func (r *PasswordResetRepository) GetByEmailAndCode(ctx context.Context, email, code string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ?", email, code).
		First(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

// MarkUsed 标记验证码为已使用
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, resetID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.PasswordReset{}).
		Where("id = ?", resetID).
		Update("used", true).Error
}

// InvalidateForUser 使用户所有未使用的验证码失效
func (r *PasswordResetRepository) InvalidateForUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.PasswordReset{}).
		Where("user_id = ? AND used = ?", userID, false).
		Update("used", true).Error
}

// Delete 删除验证码记录
func (r *PasswordResetRepository) Delete(ctx context.Context, resetID uint) error {
	return r.db.WithContext(ctx).Delete(&models.PasswordReset{}, resetID).Error
}
