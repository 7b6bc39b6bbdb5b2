package api

import (
	"strconv"

	"ledger/middleware"
	"ledger/repository"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 消费类别处理器
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CreateCategoryRequest 创建类别请求
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required" example:"餐饮"`
	Description string `json:"description" example:"一日三餐"`
}

// UpdateCategoryRequest 更新类别请求，未提供的字段保持不变
type UpdateCategoryRequest struct {
	Name        *string `json:"name" example:"交通"`
	Description *string `json:"description" example:"通勤费用"`
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "无效的 ID")
		return 0, false
	}
	return uint(id), true
}

// List 获取类别列表
// @Summary 获取类别列表
// @Description 获取当前用户的全部消费类别，按名称排序
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	categories, err := h.categories.List(c.Request.Context(), userID)
	if err != nil {
		FailFromError(c, err, "获取类别列表失败")
		return
	}

	Success(c, categories)
}

// Get 获取单个类别
// @Summary 获取单个类别
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别 ID"
// @Success 200 {object} Response{data=models.Category} "获取成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categories.Get(c.Request.Context(), userID, categoryID)
	if err != nil {
		FailFromError(c, err, "获取类别失败")
		return
	}

	Success(c, category)
}

// Create 创建类别
// @Summary 创建类别
// @Description 创建消费类别，同一用户下名称唯一
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "类别名称已存在"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	category, err := h.categories.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		FailFromError(c, err, "创建类别失败")
		return
	}

	SuccessWithMessage(c, "创建成功", category)
}

// Update 更新类别
// @Summary 更新类别
// @Description 更新类别名称或描述，仅更新请求中出现的字段
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别 ID"
// @Param request body UpdateCategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 404 {object} Response "类别不存在"
// @Failure 409 {object} Response "类别名称已存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	category, err := h.categories.Update(c.Request.Context(), userID, categoryID, repository.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		FailFromError(c, err, "更新类别失败")
		return
	}

	SuccessWithMessage(c, "更新成功", category)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 删除类别及其下全部消费记录
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), userID, categoryID); err != nil {
		FailFromError(c, err, "删除类别失败")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
