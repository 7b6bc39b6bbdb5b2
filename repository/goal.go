package repository

import (
	"context"
	"errors"
	"fmt"

	"ledger/models"

	"gorm.io/gorm"
)

// GoalRepository 消费目标仓储
type GoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository 创建目标仓储
func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

// GoalPatch 目标部分更新，nil 字段不参与更新
type GoalPatch struct {
	GoalLimit *float64
}

// GetForUser 按 ID 获取用户名下的目标
func (r *GoalRepository) GetForUser(ctx context.Context, userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// GetLatestForUser 获取用户最新创建的目标
// created_at 相同时取 id 更大的一条
func (r *GoalRepository) GetLatestForUser(ctx context.Context, userID uint) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// CreateForUser 创建目标
func (r *GoalRepository) CreateForUser(ctx context.Context, userID uint, goalLimit float64) (*models.Goal, error) {
	if goalLimit <= 0 {
		return nil, ErrInvalidGoalLimit
	}

	goal := models.Goal{
		UserID:    userID,
		GoalLimit: goalLimit,
	}
	if err := r.db.WithContext(ctx).Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouldNotCreate, err)
	}
	return &goal, nil
}

// UpdateForUser 部分更新目标
func (r *GoalRepository) UpdateForUser(ctx context.Context, userID, goalID uint, patch GoalPatch) (*models.Goal, error) {
	goal, err := r.GetForUser(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if patch.GoalLimit == nil {
		return goal, nil
	}
	if *patch.GoalLimit <= 0 {
		return nil, ErrInvalidGoalLimit
	}

	if err := r.db.WithContext(ctx).Model(goal).Update("goal_limit", *patch.GoalLimit).Error; err != nil {
		return nil, err
	}

	return r.GetForUser(ctx, userID, goalID)
}

// DeleteForUser 删除目标
func (r *GoalRepository) DeleteForUser(ctx context.Context, userID, goalID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		Delete(&models.Goal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
