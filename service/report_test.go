package service

import (
	"context"
	"testing"
	"time"

	"ledger/models"
	"ledger/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeMonth(t *testing.T) {
	assert.Equal(t, 0.0, SummarizeMonth(nil))

	expenses := []models.Expense{
		{Amount: 10.5},
		{Amount: 20},
		{Amount: 0.5},
	}
	assert.Equal(t, 31.0, SummarizeMonth(expenses))
}

func TestBreakdownByCategory(t *testing.T) {
	names := map[uint]string{1: "餐饮", 2: "交通", 3: "购物"}
	expenses := []models.Expense{
		{CategoryID: 1, Amount: 30},
		{CategoryID: 2, Amount: 100},
		{CategoryID: 1, Amount: 20},
		{CategoryID: 3, Amount: 5},
	}

	breakdown := BreakdownByCategory(expenses, names)
	require.Len(t, breakdown, 3)

	// 按总额降序
	assert.Equal(t, "交通", breakdown[0].CategoryName)
	assert.Equal(t, 100.0, breakdown[0].Total)
	assert.Equal(t, 1, breakdown[0].Count)

	assert.Equal(t, "餐饮", breakdown[1].CategoryName)
	assert.Equal(t, 50.0, breakdown[1].Total)
	assert.Equal(t, 2, breakdown[1].Count)

	assert.Equal(t, "购物", breakdown[2].CategoryName)
	assert.Equal(t, 5.0, breakdown[2].Total)
}

func TestBreakdownByCategory_StableOnTie(t *testing.T) {
	names := map[uint]string{1: "餐饮", 2: "交通", 3: "购物"}

	// 三个类别总额相同，保持首次出现的相对顺序
	expenses := []models.Expense{
		{CategoryID: 2, Amount: 50},
		{CategoryID: 3, Amount: 50},
		{CategoryID: 1, Amount: 50},
	}

	breakdown := BreakdownByCategory(expenses, names)
	require.Len(t, breakdown, 3)
	assert.Equal(t, uint(2), breakdown[0].CategoryID)
	assert.Equal(t, uint(3), breakdown[1].CategoryID)
	assert.Equal(t, uint(1), breakdown[2].CategoryID)
}

func TestTopCategories(t *testing.T) {
	breakdown := []CategoryTotal{
		{CategoryID: 1, Total: 700},
		{CategoryID: 2, Total: 600},
		{CategoryID: 3, Total: 500},
		{CategoryID: 4, Total: 400},
		{CategoryID: 5, Total: 300},
		{CategoryID: 6, Total: 200},
		{CategoryID: 7, Total: 100},
	}

	top := TopCategories(breakdown, 5)
	require.Len(t, top, 5)
	assert.Equal(t, uint(1), top[0].CategoryID)
	assert.Equal(t, uint(5), top[4].CategoryID)

	// 少于 n 个类别时全部返回
	assert.Len(t, TopCategories(breakdown[:2], 5), 2)
	assert.Empty(t, TopCategories(nil, 5))
}

func TestMonthBounds(t *testing.T) {
	start, end := monthBounds(2024, 2)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	// 2024 是闰年，2 月有 29 天
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), end)

	start, end = monthBounds(2023, 12)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 999999999, time.UTC), end)
}

func TestReportService_Monthly(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	svc := NewReportService(
		repository.NewExpenseRepository(db),
		repository.NewCategoryRepository(db),
	)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	mock.ExpectQuery("SELECT .* FROM `expenses` WHERE user_id = .* AND \\(?occurred_at BETWEEN .*").
		WithArgs(1, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category_id", "amount", "occurred_at", "title", "note", "created_at"}).
			AddRow(1, 1, 1, 30.0, start.Add(24*time.Hour), "午餐", "", start).
			AddRow(2, 1, 2, 100.0, start.Add(48*time.Hour), "打车", "", start).
			AddRow(3, 1, 1, 20.0, start.Add(72*time.Hour), "晚餐", "", start))

	mock.ExpectQuery("SELECT .* FROM `categories` WHERE user_id = .* ORDER BY name ASC").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "description"}).
			AddRow(1, 1, "餐饮", "").
			AddRow(2, 1, "交通", ""))

	report, err := svc.Monthly(context.Background(), 1, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 150.0, report.TotalExpense)
	assert.Equal(t, 3, report.ExpenseCount)
	require.Len(t, report.Breakdown, 2)
	assert.Equal(t, "交通", report.Breakdown[0].CategoryName)
	assert.Equal(t, 100.0, report.Breakdown[0].Total)
	assert.Equal(t, "餐饮", report.Breakdown[1].CategoryName)
	assert.Equal(t, 50.0, report.Breakdown[1].Total)
	assert.Len(t, report.TopCategories, 2)

	// 月份边界与带类别名的明细行
	assert.Equal(t, start, report.StartDate)
	assert.Equal(t, end, report.EndDate)
	require.Len(t, report.Expenses, 3)
	assert.Equal(t, "餐饮", report.Expenses[0].CategoryName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportService_Summary(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	svc := NewReportService(
		repository.NewExpenseRepository(db),
		repository.NewCategoryRepository(db),
	)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `expenses` WHERE user_id = .* AND \\(?occurred_at BETWEEN .*").
		WithArgs(1, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `expenses` WHERE user_id = .* AND \\(?occurred_at BETWEEN .*").
		WithArgs(1, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(321.5))

	summary, err := svc.Summary(context.Background(), 1, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.ExpenseCount)
	assert.Equal(t, 321.5, summary.TotalExpense)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateYearMonth(t *testing.T) {
	assert.NoError(t, validateYearMonth(2024, 1))
	assert.NoError(t, validateYearMonth(2024, 12))
	assert.ErrorIs(t, validateYearMonth(2024, 0), ErrInvalidMonth)
	assert.ErrorIs(t, validateYearMonth(2024, 13), ErrInvalidMonth)
	assert.ErrorIs(t, validateYearMonth(0, 5), ErrInvalidYear)
}
