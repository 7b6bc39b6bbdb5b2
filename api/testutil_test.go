package api

import (
	"testing"
	"time"

	"ledger/config"
	"ledger/middleware"
	"ledger/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB 创建基于 sqlmock 的 gorm 连接
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	return gormDB, mock, func() { sqlDB.Close() }
}

// setupTestConfig 写入测试配置并初始化 JWT，返回恢复函数
func setupTestConfig(t *testing.T) func() {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	gin.SetMode(gin.TestMode)
	return func() { config.GlobalConfig = nil }
}

// testAPIConfig 返回当前测试配置，须在 setupTestConfig 之后调用
func testAPIConfig() *config.Config {
	return config.GlobalConfig
}

// withTestUser 在请求上下文中注入当前用户，替代 JWT 认证中间件
func withTestUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CurrentUserKey, &models.User{
			ID:    userID,
			Email: "a@example.com",
		})
		c.Next()
	}
}
