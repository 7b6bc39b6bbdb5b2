package api

import (
	"ledger/middleware"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"张三"`
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// UpdateProfileRequest 更新资料请求，未提供的字段保持不变
type UpdateProfileRequest struct {
	Username *string `json:"username" example:"李四"`
	Email    *string `json:"email" example:"new@example.com"`
	Password *string `json:"password" example:"newsecret"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required" example:"user@example.com"`
}

// VerifyResetCodeRequest 校验验证码请求
type VerifyResetCodeRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required" example:"123456"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 使用用户名、邮箱和密码注册新账号
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=models.User} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "邮箱已被注册"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		FailFromError(c, err, "注册失败")
		return
	}

	SuccessWithMessage(c, "注册成功", user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 使用邮箱和密码登录，返回访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response "登录成功，返回 token"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		FailFromError(c, err, "登录失败")
		return
	}

	SuccessWithMessage(c, "登录成功", gin.H{
		"token": token,
		"user":  user,
	})
}

// Profile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	Success(c, middleware.GetCurrentUser(c))
}

// UpdateProfile 更新当前用户资料
// @Summary 更新当前用户资料
// @Description 更新用户名、邮箱或密码，仅更新请求中出现的字段
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "资料信息"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "邮箱已被注册"
// @Router /api/v1/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, service.ProfilePatch{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		FailFromError(c, err, "更新失败")
		return
	}

	SuccessWithMessage(c, "更新成功", user)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 校验原密码后设置新密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "原密码错误"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		FailFromError(c, err, "修改密码失败")
		return
	}

	SuccessWithMessage(c, "修改成功", nil)
}

// DeleteAccount 注销账号
// @Summary 注销账号
// @Description 删除当前账号及名下全部数据
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "注销成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/account [delete]
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	if err := h.auth.DeleteAccount(c.Request.Context(), userID); err != nil {
		FailFromError(c, err, "注销失败")
		return
	}

	SuccessWithMessage(c, "注销成功", nil)
}

// ForgotPassword 发送密码重置验证码
// @Summary 发送密码重置验证码
// @Description 向邮箱发送 6 位验证码。无论邮箱是否存在都返回成功，避免探测注册邮箱
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "邮箱"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		FailFromError(c, err, "发送失败")
		return
	}

	SuccessWithMessage(c, "如果该邮箱已注册，验证码已发送", nil)
}

// VerifyResetCode 校验密码重置验证码
// @Summary 校验密码重置验证码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body VerifyResetCodeRequest true "邮箱与验证码"
// @Success 200 {object} Response "验证码有效"
// @Failure 400 {object} Response "验证码错误或已过期"
// @Router /api/v1/auth/verify-reset-code [post]
func (h *AuthHandler) VerifyResetCode(c *gin.Context) {
	var req VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if err := h.auth.VerifyResetCode(c.Request.Context(), req.Email, req.Code); err != nil {
		FailFromError(c, err, "校验失败")
		return
	}

	SuccessWithMessage(c, "验证码有效", nil)
}

// ResetPassword 使用验证码重置密码
// @Summary 重置密码
// @Description 使用邮箱验证码设置新密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "重置信息"
// @Success 200 {object} Response "重置成功"
// @Failure 400 {object} Response "验证码错误或已过期"
// @Router /api/v1/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		FailFromError(c, err, "重置失败")
		return
	}

	SuccessWithMessage(c, "重置成功", nil)
}
