package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ledger/models"

	"gorm.io/gorm"
)

// 允许的排序字段到数据库列的固定映射
var expenseSortColumns = map[string]string{
	"occurred_at": "occurred_at",
	"amount":      "amount",
	"created_at":  "created_at",
}

// DefaultExpenseSort 默认排序：消费时间倒序（最新在前）
const DefaultExpenseSort = "-occurred_at"

// ExpenseFilter 消费记录筛选条件，各条件为可选且为与关系
// CategoryID 的归属校验由服务层在应用筛选前完成
type ExpenseFilter struct {
	CategoryID *uint
	From       *time.Time
	To         *time.Time
}

// Pagination 分页参数，页码从 1 开始；nil 表示不分页
type Pagination struct {
	Page  int
	Limit int
}

// ExpensePatch 消费记录部分更新，nil 字段不参与更新
type ExpensePatch struct {
	CategoryID *uint
	Amount     *float64
	OccurredAt *time.Time
	Title      *string
	Note       *string
}

// ExpenseRepository 消费记录仓储
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository 创建消费记录仓储
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// parseSort 解析排序参数，如 "amount"、"-occurred_at"
func parseSort(sort string) (string, error) {
	if sort == "" {
		sort = DefaultExpenseSort
	}
	desc := strings.HasPrefix(sort, "-")
	key := strings.TrimPrefix(sort, "-")
	column, ok := expenseSortColumns[key]
	if !ok {
		return "", ErrInvalidSort
	}
	if desc {
		return column + " DESC", nil
	}
	return column + " ASC", nil
}

// applyFilter 在归属条件之上叠加筛选条件
func (r *ExpenseRepository) applyFilter(query *gorm.DB, filter ExpenseFilter) *gorm.DB {
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.From != nil && filter.To != nil {
		query = query.Where("occurred_at BETWEEN ? AND ?", *filter.From, *filter.To)
	} else if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	} else if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}
	return query
}

// GetForUser 按 ID 获取用户名下的消费记录
func (r *ExpenseRepository) GetForUser(ctx context.Context, userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", expenseID, userID).
		First(&expense).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListForUser 列出用户的消费记录，支持筛选、排序和分页
// page 为 nil 时返回全部匹配记录
func (r *ExpenseRepository) ListForUser(ctx context.Context, userID uint, filter ExpenseFilter, sort string, page *Pagination) ([]models.Expense, error) {
	order, err := parseSort(sort)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID)
	query = r.applyFilter(query, filter).Order(order)

	if page != nil {
		if page.Page < 1 || page.Limit < 1 {
			return nil, ErrInvalidPagination
		}
		offset := (page.Page - 1) * page.Limit
		query = query.Offset(offset).Limit(page.Limit)
	}

	var expenses []models.Expense
	if err := query.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// CountForUser 统计同一筛选条件下的记录总数（不含分页和排序）
func (r *ExpenseRepository) CountForUser(ctx context.Context, userID uint, filter ExpenseFilter) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("user_id = ?", userID)
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// TotalForUser 统计时间范围内的消费总额
func (r *ExpenseRepository) TotalForUser(ctx context.Context, userID uint, from, to *time.Time) (float64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("user_id = ?", userID)
	query = r.applyFilter(query, ExpenseFilter{From: from, To: to})

	var total float64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// CreateForUser 创建消费记录
// occurred_at 为零值时默认取当前时间
func (r *ExpenseRepository) CreateForUser(ctx context.Context, userID uint, expense *models.Expense) error {
	if expense.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(expense.Title) == "" {
		return ErrEmptyTitle
	}
	if expense.OccurredAt.IsZero() {
		expense.OccurredAt = time.Now().UTC()
	}
	expense.UserID = userID

	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrCouldNotCreate, err)
	}
	return nil
}

// UpdateForUser 部分更新消费记录，金额字段出现时重新校验
// category_id 的归属校验由服务层在调用前完成
func (r *ExpenseRepository) UpdateForUser(ctx context.Context, userID, expenseID uint, patch ExpensePatch) (*models.Expense, error) {
	expense, err := r.GetForUser(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.Amount != nil {
		if *patch.Amount <= 0 {
			return nil, ErrInvalidAmount
		}
		updates["amount"] = *patch.Amount
	}
	if patch.OccurredAt != nil {
		updates["occurred_at"] = *patch.OccurredAt
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, ErrEmptyTitle
		}
		updates["title"] = *patch.Title
	}
	if patch.Note != nil {
		updates["note"] = *patch.Note
	}
	if len(updates) == 0 {
		return expense, nil
	}

	if err := r.db.WithContext(ctx).Model(expense).Updates(updates).Error; err != nil {
		return nil, err
	}

	return r.GetForUser(ctx, userID, expenseID)
}

// DeleteForUser 删除消费记录
func (r *ExpenseRepository) DeleteForUser(ctx context.Context, userID, expenseID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", expenseID, userID).
		Delete(&models.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
