package service

import (
	"context"
	"sort"
	"time"

	"ledger/models"
	"ledger/repository"
)

// 消费排行取前几名
const topCategoryCount = 5

// CategoryTotal 单个类别的消费汇总
type CategoryTotal struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
	Count        int     `json:"count"`
}

// ExpenseLine 报告中的消费明细行，带解析后的类别名
type ExpenseLine struct {
	ID           uint      `json:"id"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Amount       float64   `json:"amount"`
	OccurredAt   time.Time `json:"occurred_at"`
	Title        string    `json:"title"`
	Note         string    `json:"note"`
}

// MonthlyReport 月度消费报告
type MonthlyReport struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	TotalExpense  float64         `json:"total_expense"`
	ExpenseCount  int             `json:"expense_count"`
	Breakdown     []CategoryTotal `json:"breakdown"`
	TopCategories []CategoryTotal `json:"top_categories"`
	Expenses      []ExpenseLine   `json:"expenses"`
}

// SummarizeMonth 汇总一组消费记录的总额
func SummarizeMonth(expenses []models.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// BreakdownByCategory 按类别汇总消费，按总额降序排列
// 总额相同的类别保持首次出现的相对顺序
func BreakdownByCategory(expenses []models.Expense, categoryNames map[uint]string) []CategoryTotal {
	index := map[uint]int{}
	breakdown := []CategoryTotal{}
	for _, e := range expenses {
		i, ok := index[e.CategoryID]
		if !ok {
			i = len(breakdown)
			index[e.CategoryID] = i
			breakdown = append(breakdown, CategoryTotal{
				CategoryID:   e.CategoryID,
				CategoryName: categoryNames[e.CategoryID],
			})
		}
		breakdown[i].Total += e.Amount
		breakdown[i].Count++
	}

	sort.SliceStable(breakdown, func(a, b int) bool {
		return breakdown[a].Total > breakdown[b].Total
	})
	return breakdown
}

// TopCategories 取消费最多的前几个类别
func TopCategories(breakdown []CategoryTotal, n int) []CategoryTotal {
	if n > len(breakdown) {
		n = len(breakdown)
	}
	return breakdown[:n]
}

// ReportService 月度报表
type ReportService struct {
	expenses   *repository.ExpenseRepository
	categories *repository.CategoryRepository
}

// NewReportService 创建报表服务
func NewReportService(expenses *repository.ExpenseRepository, categories *repository.CategoryRepository) *ReportService {
	return &ReportService{expenses: expenses, categories: categories}
}

// RangeSummary 时间范围内的消费汇总
type RangeSummary struct {
	ExpenseCount int     `json:"expense_count"`
	TotalExpense float64 `json:"total_expense"`
}

// categoryNames 加载用户类别 ID 到名称的映射
func (s *ReportService) categoryNames(ctx context.Context, userID uint) (map[uint]string, error) {
	categories, err := s.categories.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

// Summary 统计时间范围内的消费笔数与总额，范围端点可为 nil
func (s *ReportService) Summary(ctx context.Context, userID uint, from, to *time.Time) (*RangeSummary, error) {
	filter := repository.ExpenseFilter{From: from, To: to}
	count, err := s.expenses.CountForUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.expenses.TotalForUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return &RangeSummary{ExpenseCount: int(count), TotalExpense: total}, nil
}

// Breakdown 按类别汇总时间范围内的消费，按总额降序
func (s *ReportService) Breakdown(ctx context.Context, userID uint, from, to *time.Time) ([]CategoryTotal, error) {
	filter := repository.ExpenseFilter{From: from, To: to}
	expenses, err := s.expenses.ListForUser(ctx, userID, filter, repository.DefaultExpenseSort, nil)
	if err != nil {
		return nil, err
	}
	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BreakdownByCategory(expenses, names), nil
}

// Top 时间范围内消费最多的前 n 个类别，n <= 0 时取默认值
func (s *ReportService) Top(ctx context.Context, userID uint, from, to *time.Time, n int) ([]CategoryTotal, error) {
	if n <= 0 {
		n = topCategoryCount
	}
	breakdown, err := s.Breakdown(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return TopCategories(breakdown, n), nil
}

// Monthly 生成某月的消费报告
func (s *ReportService) Monthly(ctx context.Context, userID uint, year, month int) (*MonthlyReport, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	start, end := monthBounds(year, month)
	filter := repository.ExpenseFilter{From: &start, To: &end}
	expenses, err := s.expenses.ListForUser(ctx, userID, filter, repository.DefaultExpenseSort, nil)
	if err != nil {
		return nil, err
	}

	names, err := s.categoryNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]ExpenseLine, 0, len(expenses))
	for _, e := range expenses {
		lines = append(lines, ExpenseLine{
			ID:           e.ID,
			CategoryID:   e.CategoryID,
			CategoryName: names[e.CategoryID],
			Amount:       e.Amount,
			OccurredAt:   e.OccurredAt,
			Title:        e.Title,
			Note:         e.Note,
		})
	}

	breakdown := BreakdownByCategory(expenses, names)
	return &MonthlyReport{
		Year:          year,
		Month:         month,
		StartDate:     start,
		EndDate:       end,
		TotalExpense:  SummarizeMonth(expenses),
		ExpenseCount:  len(expenses),
		Breakdown:     breakdown,
		TopCategories: TopCategories(breakdown, topCategoryCount),
		Expenses:      lines,
	}, nil
}
