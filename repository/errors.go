package repository

import "errors"

// 仓储层错误
// ErrNotFound 对"记录不存在"和"记录属于他人"不做区分，保证租户不可探测
var (
	ErrNotFound          = errors.New("记录不存在")
	ErrEmailExists       = errors.New("邮箱已被注册")
	ErrCategoryExists    = errors.New("类别名称已存在")
	ErrCouldNotCreate    = errors.New("创建记录失败")
	ErrInvalidSort       = errors.New("不支持的排序字段")
	ErrInvalidPagination = errors.New("分页参数无效")
	ErrInvalidAmount     = errors.New("金额必须大于 0")
	ErrEmptyTitle        = errors.New("标题不能为空")
	ErrInvalidGoalLimit  = errors.New("目标上限必须大于 0")
)
