package repository

import (
	"context"
	"errors"
	"fmt"

	"ledger/models"

	"gorm.io/gorm"
)

// CategoryRepository 消费类别仓储
// 所有操作都带 user_id 等值条件，不存在绕过归属判断的查询路径
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建类别仓储
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// CategoryPatch 类别部分更新，nil 字段不参与更新
type CategoryPatch struct {
	Name        *string
	Description *string
}

// ListForUser 列出用户的全部类别，按名称升序
func (r *CategoryRepository) ListForUser(ctx context.Context, userID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetForUser 按 ID 获取用户名下的类别
func (r *CategoryRepository) GetForUser(ctx context.Context, userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID, userID).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByNameForUser 按名称获取用户名下的类别
func (r *CategoryRepository) GetByNameForUser(ctx context.Context, userID uint, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateForUser 创建类别
// 同名预检查只是友好提示，(user_id, name) 唯一索引才是最终裁决
func (r *CategoryRepository) CreateForUser(ctx context.Context, userID uint, name, description string) (*models.Category, error) {
	if _, err := r.GetByNameForUser(ctx, userID, name); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	category := models.Category{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("%w: %v", ErrCouldNotCreate, err)
	}
	return &category, nil
}

// UpdateForUser 部分更新类别，改名时重新校验同名唯一
func (r *CategoryRepository) UpdateForUser(ctx context.Context, userID, categoryID uint, patch CategoryPatch) (*models.Category, error) {
	category, err := r.GetForUser(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		existing, err := r.GetByNameForUser(ctx, userID, *patch.Name)
		if err == nil && existing.ID != category.ID {
			return nil, ErrCategoryExists
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if len(updates) == 0 {
		return category, nil
	}

	if err := r.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	return r.GetForUser(ctx, userID, categoryID)
}

// DeleteForUser 删除类别，外键级联删除其下消费记录
func (r *CategoryRepository) DeleteForUser(ctx context.Context, userID, categoryID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
