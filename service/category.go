package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"ledger/models"
	"ledger/repository"
)

// 类别名称长度上限
const maxCategoryNameLen = 20

// CategoryService 消费类别管理
type CategoryService struct {
	categories *repository.CategoryRepository
}

// NewCategoryService 创建类别服务
func NewCategoryService(categories *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return ErrNameTooLong
	}
	return nil
}

// List 列出用户的全部类别
func (s *CategoryService) List(ctx context.Context, userID uint) ([]models.Category, error) {
	return s.categories.ListForUser(ctx, userID)
}

// Get 获取单个类别
func (s *CategoryService) Get(ctx context.Context, userID, categoryID uint) (*models.Category, error) {
	return s.categories.GetForUser(ctx, userID, categoryID)
}

// Create 创建类别
func (s *CategoryService) Create(ctx context.Context, userID uint, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	return s.categories.CreateForUser(ctx, userID, name, description)
}

// Update 部分更新类别
func (s *CategoryService) Update(ctx context.Context, userID, categoryID uint, patch repository.CategoryPatch) (*models.Category, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := validateCategoryName(name); err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	return s.categories.UpdateForUser(ctx, userID, categoryID, patch)
}

// Delete 删除类别及其下全部消费记录
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uint) error {
	return s.categories.DeleteForUser(ctx, userID, categoryID)
}
