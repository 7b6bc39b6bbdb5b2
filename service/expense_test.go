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

func newTestExpenseService(t *testing.T) (*ExpenseService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, cleanup := setupMockDB(t)
	expenses := repository.NewExpenseRepository(db)
	categories := repository.NewCategoryRepository(db)
	return NewExpenseService(expenses, categories), mock, cleanup
}

func TestExpenseService_List_PaginationDefaults(t *testing.T) {
	svc, mock, cleanup := newTestExpenseService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count.* FROM `expenses` WHERE user_id = .*").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))

	// 缺省取第 1 页、每页 20 条
	mock.ExpectQuery("SELECT .* FROM `expenses` WHERE user_id = .* ORDER BY occurred_at DESC LIMIT 20$").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "category_id", "amount", "occurred_at", "title", "note", "created_at"}).
			AddRow(1, 1, 2, 10.0, time.Now(), "午餐", "", time.Now()))

	expenses, meta, err := svc.List(context.Background(), 1, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, expenses, 1)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, int64(45), meta.Total)
	// pages = ceil(45/20)
	assert.Equal(t, int64(3), meta.Pages)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseService_List_LimitCap(t *testing.T) {
	svc, _, cleanup := newTestExpenseService(t)
	defer cleanup()

	// 超过上限直接报错而不是截断
	_, _, err := svc.List(context.Background(), 1, ListOptions{Limit: 101})
	assert.ErrorIs(t, err, repository.ErrInvalidPagination)

	_, _, err = svc.List(context.Background(), 1, ListOptions{Page: -1})
	assert.ErrorIs(t, err, repository.ErrInvalidPagination)

	_, _, err = svc.List(context.Background(), 1, ListOptions{Limit: -5})
	assert.ErrorIs(t, err, repository.ErrInvalidPagination)
}

func TestExpenseService_List_InvalidDateRange(t *testing.T) {
	svc, _, cleanup := newTestExpenseService(t)
	defer cleanup()

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := svc.List(context.Background(), 1, ListOptions{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestExpenseService_List_ForeignCategory(t *testing.T) {
	svc, mock, cleanup := newTestExpenseService(t)
	defer cleanup()

	categoryID := uint(7)

	// 类别归属校验查不到记录
	mock.ExpectQuery("SELECT .* FROM `categories` WHERE id = .* AND user_id = .*").
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := svc.List(context.Background(), 1, ListOptions{CategoryID: &categoryID})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseService_Create_ForeignCategory(t *testing.T) {
	svc, mock, cleanup := newTestExpenseService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories` WHERE id = .* AND user_id = .*").
		WithArgs(9, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.Create(context.Background(), 1, &models.Expense{CategoryID: 9, Amount: 10, Title: "午餐"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseService_Create_TitleTooLong(t *testing.T) {
	svc, _, cleanup := newTestExpenseService(t)
	defer cleanup()

	long := make([]rune, 51)
	for i := range long {
		long[i] = '字'
	}

	err := svc.Create(context.Background(), 1, &models.Expense{CategoryID: 1, Amount: 10, Title: string(long)})
	assert.ErrorIs(t, err, ErrTitleTooLong)
}
