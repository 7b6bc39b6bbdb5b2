package service

import (
	"context"
	"time"

	"ledger/models"
	"ledger/repository"
)

// GoalService 消费目标管理与进度计算
type GoalService struct {
	goals    *repository.GoalRepository
	expenses *repository.ExpenseRepository
}

// NewGoalService 创建目标服务
func NewGoalService(goals *repository.GoalRepository, expenses *repository.ExpenseRepository) *GoalService {
	return &GoalService{goals: goals, expenses: expenses}
}

// GoalProgress 某月的目标完成进度
// Difference = GoalLimit - TotalExpense，为负表示已超支
type GoalProgress struct {
	GoalID       uint    `json:"goal_id"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	GoalLimit    float64 `json:"goal_limit"`
	TotalExpense float64 `json:"total_expense"`
	Difference   float64 `json:"difference"`
}

func validateYearMonth(year, month int) error {
	if year < 1 {
		return ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// monthBounds 返回某月在 UTC 下的起止时间（闭区间）
func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// Set 设置消费目标
// goalID 为 nil 时新建目标并立即生效，否则更新指定目标的限额
func (s *GoalService) Set(ctx context.Context, userID uint, goalID *uint, goalLimit float64) (*models.Goal, error) {
	if goalID == nil {
		return s.goals.CreateForUser(ctx, userID, goalLimit)
	}
	return s.goals.UpdateForUser(ctx, userID, *goalID, repository.GoalPatch{GoalLimit: &goalLimit})
}

// Current 获取当前生效的目标（最新创建的一条）
func (s *GoalService) Current(ctx context.Context, userID uint) (*models.Goal, error) {
	return s.goals.GetLatestForUser(ctx, userID)
}

// Get 获取单个目标
func (s *GoalService) Get(ctx context.Context, userID, goalID uint) (*models.Goal, error) {
	return s.goals.GetForUser(ctx, userID, goalID)
}

// Update 更新目标限额
func (s *GoalService) Update(ctx context.Context, userID, goalID uint, patch repository.GoalPatch) (*models.Goal, error) {
	return s.goals.UpdateForUser(ctx, userID, goalID, patch)
}

// Delete 删除目标
func (s *GoalService) Delete(ctx context.Context, userID, goalID uint) error {
	return s.goals.DeleteForUser(ctx, userID, goalID)
}

// Progress 计算某月的目标完成进度
// goalID 为 nil 时取当前生效的目标，否则取指定目标
func (s *GoalService) Progress(ctx context.Context, userID uint, year, month int, goalID *uint) (*GoalProgress, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	var goal *models.Goal
	var err error
	if goalID != nil {
		goal, err = s.goals.GetForUser(ctx, userID, *goalID)
	} else {
		goal, err = s.goals.GetLatestForUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	start, end := monthBounds(year, month)
	total, err := s.expenses.TotalForUser(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}

	return &GoalProgress{
		GoalID:       goal.ID,
		Year:         year,
		Month:        month,
		GoalLimit:    goal.GoalLimit,
		TotalExpense: total,
		Difference:   goal.GoalLimit - total,
	}, nil
}
