package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"ledger/models"
	"ledger/repository"
)

// 分页参数边界
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// 标题长度上限
const maxExpenseTitleLen = 50

// ListOptions 消费记录列表查询参数
// Page/Limit 为 0 时取默认值 1/20
type ListOptions struct {
	CategoryID *uint
	From       *time.Time
	To         *time.Time
	Sort       string
	Page       int
	Limit      int
}

// PageMeta 分页结果元信息
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// ExpenseService 消费记录管理
type ExpenseService struct {
	expenses   *repository.ExpenseRepository
	categories *repository.CategoryRepository
}

// NewExpenseService 创建消费记录服务
func NewExpenseService(expenses *repository.ExpenseRepository, categories *repository.CategoryRepository) *ExpenseService {
	return &ExpenseService{expenses: expenses, categories: categories}
}

// ensureCategory 校验类别存在且属于当前用户
// 他人的类别与不存在的类别返回同一个错误
func (s *ExpenseService) ensureCategory(ctx context.Context, userID, categoryID uint) error {
	_, err := s.categories.GetForUser(ctx, userID, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCategoryNotFound
	}
	return err
}

func validateExpenseTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return repository.ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxExpenseTitleLen {
		return ErrTitleTooLong
	}
	return nil
}

func validateDateRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return ErrInvalidDateRange
	}
	return nil
}

// List 分页列出消费记录，返回记录与分页元信息
// limit 超过上限时直接报错而不是截断
func (s *ExpenseService) List(ctx context.Context, userID uint, opts ListOptions) ([]models.Expense, *PageMeta, error) {
	if err := validateDateRange(opts.From, opts.To); err != nil {
		return nil, nil, err
	}
	if opts.CategoryID != nil {
		if err := s.ensureCategory(ctx, userID, *opts.CategoryID); err != nil {
			return nil, nil, err
		}
	}

	if opts.Page == 0 {
		opts.Page = 1
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultPageLimit
	}
	if opts.Page < 1 || opts.Limit < 1 || opts.Limit > MaxPageLimit {
		return nil, nil, repository.ErrInvalidPagination
	}

	filter := repository.ExpenseFilter{
		CategoryID: opts.CategoryID,
		From:       opts.From,
		To:         opts.To,
	}

	total, err := s.expenses.CountForUser(ctx, userID, filter)
	if err != nil {
		return nil, nil, err
	}

	page := &repository.Pagination{Page: opts.Page, Limit: opts.Limit}
	expenses, err := s.expenses.ListForUser(ctx, userID, filter, opts.Sort, page)
	if err != nil {
		return nil, nil, err
	}

	meta := &PageMeta{
		Page:  opts.Page,
		Limit: opts.Limit,
		Total: total,
		Pages: (total + int64(opts.Limit) - 1) / int64(opts.Limit),
	}
	return expenses, meta, nil
}

// ListAll 列出时间范围内的全部消费记录（不分页），供导出和报表使用
func (s *ExpenseService) ListAll(ctx context.Context, userID uint, from, to *time.Time, sort string) ([]models.Expense, error) {
	if err := validateDateRange(from, to); err != nil {
		return nil, err
	}
	filter := repository.ExpenseFilter{From: from, To: to}
	return s.expenses.ListForUser(ctx, userID, filter, sort, nil)
}

// Get 获取单条消费记录
func (s *ExpenseService) Get(ctx context.Context, userID, expenseID uint) (*models.Expense, error) {
	return s.expenses.GetForUser(ctx, userID, expenseID)
}

// Create 创建消费记录
func (s *ExpenseService) Create(ctx context.Context, userID uint, expense *models.Expense) error {
	if expense.Amount <= 0 {
		return repository.ErrInvalidAmount
	}
	expense.Title = strings.TrimSpace(expense.Title)
	if err := validateExpenseTitle(expense.Title); err != nil {
		return err
	}
	if err := s.ensureCategory(ctx, userID, expense.CategoryID); err != nil {
		return err
	}
	return s.expenses.CreateForUser(ctx, userID, expense)
}

// Update 部分更新消费记录
func (s *ExpenseService) Update(ctx context.Context, userID, expenseID uint, patch repository.ExpensePatch) (*models.Expense, error) {
	if patch.CategoryID != nil {
		if err := s.ensureCategory(ctx, userID, *patch.CategoryID); err != nil {
			return nil, err
		}
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := validateExpenseTitle(title); err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	return s.expenses.UpdateForUser(ctx, userID, expenseID, patch)
}

// Delete 删除消费记录
func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID uint) error {
	return s.expenses.DeleteForUser(ctx, userID, expenseID)
}
