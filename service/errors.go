package service

import "errors"

// 服务层错误
// ErrCategoryNotFound 同时覆盖"类别不存在"与"类别属于他人"——调用方视角下二者相同
var (
	ErrUsernameRequired   = errors.New("用户名不能为空")
	ErrEmailRequired      = errors.New("邮箱不能为空")
	ErrPasswordRequired   = errors.New("密码不能为空")
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrWrongPassword      = errors.New("原密码错误")

	ErrCategoryNotFound = errors.New("类别不存在")
	ErrNameTooLong      = errors.New("类别名称不能超过 20 个字符")
	ErrEmptyName        = errors.New("类别名称不能为空")
	ErrTitleTooLong     = errors.New("标题不能超过 50 个字符")

	ErrInvalidDateRange = errors.New("开始时间不能晚于结束时间")
	ErrInvalidMonth     = errors.New("月份必须在 1 到 12 之间")
	ErrInvalidYear      = errors.New("年份无效")

	ErrResetCodeInvalid = errors.New("验证码错误或已过期")
)
