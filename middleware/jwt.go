package middleware

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ledger/config"
	"ledger/models"
	"ledger/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CurrentUserKey 上下文中存放当前用户的键
const CurrentUserKey = "currentUser"

// ErrTokenInvalid 签名无效、格式错误或已过期，对外不做区分
var ErrTokenInvalid = errors.New("无效的认证信息")

var (
	jwtSecret       []byte
	defaultTokenTTL time.Duration
)

// InitJWT 初始化 JWT 签名密钥和默认有效期，进程启动时调用一次
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
	defaultTokenTTL = cfg.JWT.ExpireTime
}

// GenerateToken 签发访问令牌
// subject 为用户的稳定标识（邮箱）；ttl <= 0 时使用配置的默认有效期
func GenerateToken(subject string, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("JWT 未初始化，请先调用 InitJWT")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseToken 验证并解析访问令牌
// 对同一合法令牌重复调用结果一致；过期令牌永远失败
func ParseToken(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("意外的签名算法: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// JWTAuth JWT 认证中间件
// 每次请求都按 sub 声明重新查库解析用户，不信任跨请求缓存的用户对象，
// 避免令牌比用户本身或其邮箱活得更久。subject 缺失和用户不存在对外
// 返回完全相同的 401，内部仅记录日志区分。
func JWTAuth(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		claims, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abortUnauthorized(c)
			return
		}

		if claims.Subject == "" {
			log.Printf("认证失败: 令牌缺少 sub 声明")
			abortUnauthorized(c)
			return
		}

		user, err := users.GetByField(c.Request.Context(), repository.UserLookupByEmail, claims.Subject)
		if err != nil {
			log.Printf("认证失败: 令牌主体无法解析到用户")
			abortUnauthorized(c)
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.JSON(401, gin.H{
		"code":    401,
		"message": ErrTokenInvalid.Error(),
	})
	c.Abort()
}

// GetCurrentUser 获取当前登录用户，仅在 JWTAuth 之后可用
func GetCurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// GetCurrentUserID 获取当前登录用户 ID
func GetCurrentUserID(c *gin.Context) uint {
	if user := GetCurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}
