package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ledger/config"
	"ledger/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func initJWTTestConfig() {
	config.GlobalConfig = &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-jwt-secret-key", ExpireTime: time.Hour},
	}
	InitJWT(config.GlobalConfig)
}

func setupMockUserRepo(t *testing.T) (*repository.UserRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return repository.NewUserRepository(gormDB), mock, func() { sqlDB.Close() }
}

func TestGenerateToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	token, err := GenerateToken("a@example.com", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, len(token), 20)

	// 可解析，主体为邮箱
	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Subject)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestParseToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	// 合法 token
	token, _ := GenerateToken("admin@example.com", time.Hour)
	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)

	// 空字符串
	_, err = ParseToken("")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// 无效格式
	_, err = ParseToken("not.a.valid.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// 过期 token
	expired, _ := GenerateToken("a@example.com", -time.Minute)
	_, err = ParseToken(expired)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTAuth(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	users, mock, cleanup := setupMockUserRepo(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuth(users))
	router.GET("/protected", func(c *gin.Context) {
		c.String(200, "id:%d", GetCurrentUserID(c))
	})

	// 无 token
	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 格式错误（非 Bearer）
	req2 := httptest.NewRequest("GET", "/protected", nil)
	req2.Header.Set("Authorization", "Basic xyz")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)

	// 有效 token，每次请求按邮箱重新查库
	token, err := GenerateToken("a@example.com", time.Hour)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = .*").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(42, "alice", "a@example.com", "hash", time.Now()))

	req3 := httptest.NewRequest("GET", "/protected", nil)
	req3.Header.Set("Authorization", "Bearer "+token)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req3)
	assert.Equal(t, 200, w3.Code)
	assert.Equal(t, "id:42", w3.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJWTAuth_UserDeleted(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	users, mock, cleanup := setupMockUserRepo(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(JWTAuth(users))
	router.GET("/protected", func(c *gin.Context) {
		c.String(200, "ok")
	})

	// 令牌有效但用户已被删除，返回与无效令牌相同的 401
	token, err := GenerateToken("deleted@example.com", time.Hour)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = .*").
		WithArgs("deleted@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), ErrTokenInvalid.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}
