package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryRows(rows ...[3]interface{}) *sqlmock.Rows {
	result := sqlmock.NewRows([]string{"id", "user_id", "name", "description"})
	for _, r := range rows {
		result.AddRow(r[0], r[1], r[2], "")
	}
	return result
}

func TestCategoryRepository_ListForUser(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewCategoryRepository(db)

	mock.ExpectQuery("SELECT .* FROM `categories` WHERE user_id = .* ORDER BY name ASC").
		WithArgs(1).
		WillReturnRows(categoryRows([3]interface{}{1, 1, "餐饮"}, [3]interface{}{2, 1, "交通"}))

	categories, err := repo.ListForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_GetForUser_NotOwned(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewCategoryRepository(db)

	// 他人的类别查不到，与不存在一视同仁
	mock.ExpectQuery("SELECT .* FROM `categories` WHERE id = .* AND user_id = .*").
		WithArgs(5, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetForUser(context.Background(), 2, 5)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_CreateForUser_NameExists(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewCategoryRepository(db)

	mock.ExpectQuery("SELECT .* FROM `categories` WHERE user_id = .* AND name = .*").
		WithArgs(1, "餐饮").
		WillReturnRows(categoryRows([3]interface{}{1, 1, "餐饮"}))

	_, err := repo.CreateForUser(context.Background(), 1, "餐饮", "")
	assert.ErrorIs(t, err, ErrCategoryExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_CreateForUser(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewCategoryRepository(db)

	mock.ExpectQuery("SELECT .* FROM `categories` WHERE user_id = .* AND name = .*").
		WithArgs(1, "购物").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	category, err := repo.CreateForUser(context.Background(), 1, "购物", "日常采购")
	require.NoError(t, err)
	assert.Equal(t, uint(3), category.ID)
	assert.Equal(t, uint(1), category.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_GetLatestForUser(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewGoalRepository(db)

	// 最新目标按创建时间倒序取第一条，时间相同时取 id 更大的
	mock.ExpectQuery("SELECT .* FROM `goals` WHERE user_id = .* ORDER BY created_at DESC, id DESC").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "goal_limit", "created_at"}).
			AddRow(4, 1, 3000.0, time.Now()))

	goal, err := repo.GetLatestForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(4), goal.ID)
	assert.Equal(t, 3000.0, goal.GoalLimit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGoalRepository_CreateForUser_InvalidLimit(t *testing.T) {
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	repo := NewGoalRepository(db)

	_, err := repo.CreateForUser(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidGoalLimit)

	_, err = repo.CreateForUser(context.Background(), 1, -100)
	assert.ErrorIs(t, err, ErrInvalidGoalLimit)
}
