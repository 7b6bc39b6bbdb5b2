package service

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"ledger/config"
	"ledger/middleware"
	"ledger/models"
	"ledger/repository"

	"golang.org/x/crypto/bcrypt"
)

// 标准 local-part@domain 邮箱格式
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*$`)

// 重置验证码有效期
const resetCodeTTL = 10 * time.Minute

// AuthService 注册、登录与账号维护
type AuthService struct {
	users  *repository.UserRepository
	resets *repository.PasswordResetRepository
	email  *EmailService
	cfg    *config.Config
}

// NewAuthService 创建认证服务
func NewAuthService(users *repository.UserRepository, resets *repository.PasswordResetRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		users:  users,
		resets: resets,
		email:  NewEmailService(&cfg.Email),
		cfg:    cfg,
	}
}

// ProfilePatch 账号资料部分更新，nil 字段不参与更新
type ProfilePatch struct {
	Username *string
	Email    *string
	Password *string
}

// HashPassword 生成密码哈希
// 同一明文每次产生不同哈希（加盐），比较必须通过 VerifyPassword
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 校验明文密码与哈希是否匹配
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func validateRegistration(username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameRequired
	}
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// Register 用户注册
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 用户登录，成功时签发以邮箱为主体的访问令牌
// 用户不存在和密码错误统一折叠为 ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", nil, ErrEmailRequired
	}
	if password == "" {
		return "", nil, ErrPasswordRequired
	}

	user, err := s.users.GetByField(ctx, repository.UserLookupByEmail, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := middleware.GenerateToken(user.Email, s.cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// UpdateProfile 更新用户名/邮箱/密码，只应用白名单字段
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (*models.User, error) {
	repoPatch := repository.UserPatch{}
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, ErrUsernameRequired
		}
		repoPatch.Username = &username
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if !emailPattern.MatchString(email) {
			return nil, ErrInvalidEmail
		}
		repoPatch.Email = &email
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, ErrPasswordRequired
		}
		hash, err := HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		repoPatch.PasswordHash = &hash
	}
	return s.users.Update(ctx, userID, repoPatch)
}

// ChangePassword 校验原密码后修改密码
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	user, err := s.users.GetByField(ctx, repository.UserLookupByID, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = s.users.Update(ctx, userID, repository.UserPatch{PasswordHash: &hash})
	return err
}

// DeleteAccount 注销账号，级联删除名下全部数据
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.users.Delete(ctx, userID)
}

// RequestPasswordReset 发送密码重置验证码
// 无论邮箱是否存在都静默成功，避免账号枚举
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	user, err := s.users.GetByField(ctx, repository.UserLookupByEmail, email)
	if err != nil {
		return nil
	}

	// 1 分钟内已发送过则不重发
	if existing, err := s.resets.GetActiveForUser(ctx, user.ID); err == nil {
		if time.Since(existing.CreatedAt) < time.Minute {
			return nil
		}
		if err := s.resets.MarkUsed(ctx, existing.ID); err != nil {
			return err
		}
	}

	code, err := models.GenerateVerificationCode()
	if err != nil {
		return err
	}

	reset := &models.PasswordReset{
		UserID:    user.ID,
		Code:      code,
		Email:     email,
		ExpiresAt: time.Now().Add(resetCodeTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return err
	}

	if err := s.email.SendPasswordResetCode(email, user.Username, code); err != nil {
		// 邮件失败时回收验证码，不让请求方收到错误细节
		_ = s.resets.Delete(ctx, reset.ID)
		log.Printf("发送密码重置邮件失败: %v", err)
	}
	return nil
}

// VerifyResetCode 校验重置验证码
func (s *AuthService) VerifyResetCode(ctx context.Context, email, code string) error {
	reset, err := s.resets.GetByEmailAndCode(ctx, strings.TrimSpace(email), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetCodeInvalid
		}
		return err
	}
	if !reset.IsValid() {
		return ErrResetCodeInvalid
	}
	return nil
}

// ResetPassword 使用验证码重置密码，成功后使该用户所有验证码失效
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	reset, err := s.resets.GetByEmailAndCode(ctx, strings.TrimSpace(email), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetCodeInvalid
		}
		return err
	}
	if !reset.IsValid() {
		return ErrResetCodeInvalid
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, reset.UserID, repository.UserPatch{PasswordHash: &hash}); err != nil {
		return err
	}

	return s.resets.InvalidateForUser(ctx, reset.UserID)
}
