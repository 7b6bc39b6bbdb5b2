package service

import (
	"context"
	"testing"
	"time"

	"ledger/config"
	"ledger/middleware"
	"ledger/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: 15 * time.Minute},
	}
}

func newTestAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, cleanup := setupMockDB(t)

	cfg := testConfig()
	middleware.InitJWT(cfg)

	users := repository.NewUserRepository(db)
	resets := repository.NewPasswordResetRepository(db)
	return NewAuthService(users, resets, cfg), mock, cleanup
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, VerifyPassword("secret123", hash))
	assert.False(t, VerifyPassword("wrong", hash))

	// 同一明文每次加盐后哈希不同
	hash2, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestEmailPattern(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@example.co.uk",
		"user+tag@sub.example.org",
		"u_1@e-x.com",
	}
	for _, email := range valid {
		assert.True(t, emailPattern.MatchString(email), email)
	}

	invalid := []string{
		"",
		"plain",
		"@example.com",
		"user@",
		"user@.com",
		"user@example.",
		"user @example.com",
	}
	for _, email := range invalid {
		assert.False(t, emailPattern.MatchString(email), email)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, cleanup := newTestAuthService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@example.com", "pass")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Register(ctx, "alice", "", "pass")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Register(ctx, "alice", "not-an-email", "pass")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, "alice", "a@example.com", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestAuthService_Register(t *testing.T) {
	svc, mock, cleanup := newTestAuthService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count.* FROM `users`").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user, err := svc.Register(context.Background(), "alice", "a@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@example.com", user.Email)
	// 密码只存哈希
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, VerifyPassword("secret123", user.PasswordHash))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Login(t *testing.T) {
	svc, mock, cleanup := newTestAuthService(t)
	defer cleanup()

	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = .*").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(1, "alice", "a@example.com", hash, time.Now()))

	token, user, err := svc.Login(context.Background(), "a@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, uint(1), user.ID)

	// 令牌主体为邮箱
	claims, err := middleware.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Subject)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, mock, cleanup := newTestAuthService(t)
	defer cleanup()

	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = .*").
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(1, "alice", "a@example.com", hash, time.Now()))

	_, _, err = svc.Login(context.Background(), "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, mock, cleanup := newTestAuthService(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = .*").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// 用户不存在与密码错误对外不可区分
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_UpdateProfile_Validation(t *testing.T) {
	svc, _, cleanup := newTestAuthService(t)
	defer cleanup()

	ctx := context.Background()
	bad := "not-an-email"
	empty := ""

	_, err := svc.UpdateProfile(ctx, 1, ProfilePatch{Email: &bad})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.UpdateProfile(ctx, 1, ProfilePatch{Username: &empty})
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.UpdateProfile(ctx, 1, ProfilePatch{Password: &empty})
	assert.ErrorIs(t, err, ErrPasswordRequired)
}
