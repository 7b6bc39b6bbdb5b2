package api

import (
	"errors"
	"net/http"

	"ledger/repository"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Pages int64       `json:"pages"`
	List  interface{} `json:"list"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409 错误响应
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// FailFromError 按错误类型映射响应状态码
// 归属不符和记录不存在都走 404，不向调用方区分二者
func FailFromError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrCategoryNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrCategoryExists):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrWrongPassword):
		Unauthorized(c, err.Error())
	case errors.Is(err, repository.ErrInvalidSort),
		errors.Is(err, repository.ErrInvalidPagination),
		errors.Is(err, repository.ErrInvalidAmount),
		errors.Is(err, repository.ErrEmptyTitle),
		errors.Is(err, repository.ErrInvalidGoalLimit),
		errors.Is(err, service.ErrUsernameRequired),
		errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrNameTooLong),
		errors.Is(err, service.ErrTitleTooLong),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidMonth),
		errors.Is(err, service.ErrInvalidYear),
		errors.Is(err, service.ErrResetCodeInvalid):
		BadRequest(c, err.Error())
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
