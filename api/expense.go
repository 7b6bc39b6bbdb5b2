package api

import (
	"time"

	"ledger/middleware"
	"ledger/models"
	"ledger/repository"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// 请求中的时间字段统一使用 RFC3339 格式
const timeLayout = time.RFC3339

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// CreateExpenseRequest 创建消费记录请求
type CreateExpenseRequest struct {
	CategoryID uint    `json:"category_id" binding:"required" example:"1"`
	Amount     float64 `json:"amount" binding:"required,gt=0" example:"99.99"`
	Title      string  `json:"title" binding:"required" example:"午餐"`
	Note       string  `json:"note" example:"和同事聚餐"`
	OccurredAt string  `json:"occurred_at" example:"2024-01-15T12:30:00Z"`
}

// UpdateExpenseRequest 更新消费记录请求，未提供的字段保持不变
type UpdateExpenseRequest struct {
	CategoryID *uint    `json:"category_id" example:"2"`
	Amount     *float64 `json:"amount" example:"59.90"`
	Title      *string  `json:"title" example:"晚餐"`
	Note       *string  `json:"note"`
	OccurredAt *string  `json:"occurred_at" example:"2024-01-15T19:00:00Z"`
}

// ExpenseListRequest 消费记录列表请求
type ExpenseListRequest struct {
	Page       int    `form:"page" example:"1"`
	Limit      int    `form:"limit" example:"20"`
	CategoryID *uint  `form:"category_id"`
	From       string `form:"from" example:"2024-01-01T00:00:00Z"`
	To         string `form:"to" example:"2024-12-31T23:59:59Z"`
	Sort       string `form:"sort" example:"-occurred_at"`
}

// parseTimeParam 解析可选的时间参数
func parseTimeParam(c *gin.Context, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		BadRequest(c, "时间格式错误，应为 RFC3339，如: 2024-01-15T12:30:00Z")
		return nil, false
	}
	return &t, true
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 获取当前用户的消费记录，支持按类别和时间范围筛选、排序与分页
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量，最大 100" default(20)
// @Param category_id query int false "类别筛选"
// @Param from query string false "开始时间 (RFC3339)"
// @Param to query string false "结束时间 (RFC3339)"
// @Param sort query string false "排序字段: occurred_at/amount/created_at，前缀 - 表示倒序" default(-occurred_at)
// @Success 200 {object} Response{data=PageResponse{list=[]models.Expense}} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	from, ok := parseTimeParam(c, req.From)
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, req.To)
	if !ok {
		return
	}

	expenses, meta, err := h.expenses.List(c.Request.Context(), userID, service.ListOptions{
		CategoryID: req.CategoryID,
		From:       from,
		To:         to,
		Sort:       req.Sort,
		Page:       req.Page,
		Limit:      req.Limit,
	})
	if err != nil {
		FailFromError(c, err, "获取消费记录失败")
		return
	}

	Success(c, PageResponse{
		Total: meta.Total,
		Page:  meta.Page,
		Limit: meta.Limit,
		Pages: meta.Pages,
		List:  expenses,
	})
}

// Get 获取单条消费记录
// @Summary 获取单条消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录 ID"
// @Success 200 {object} Response{data=models.Expense} "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenses.Get(c.Request.Context(), userID, expenseID)
	if err != nil {
		FailFromError(c, err, "获取消费记录失败")
		return
	}

	Success(c, expense)
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 创建一条消费记录，occurred_at 缺省时取当前时间
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	occurredAt, ok := parseTimeParam(c, req.OccurredAt)
	if !ok {
		return
	}

	expense := models.Expense{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Title:      req.Title,
		Note:       req.Note,
	}
	if occurredAt != nil {
		expense.OccurredAt = *occurredAt
	}

	if err := h.expenses.Create(c.Request.Context(), userID, &expense); err != nil {
		FailFromError(c, err, "创建消费记录失败")
		return
	}

	SuccessWithMessage(c, "创建成功", expense)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Description 部分更新消费记录，仅更新请求中出现的字段
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录 ID"
// @Param request body UpdateExpenseRequest true "消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	patch := repository.ExpensePatch{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Title:      req.Title,
		Note:       req.Note,
	}
	if req.OccurredAt != nil {
		occurredAt, ok := parseTimeParam(c, *req.OccurredAt)
		if !ok {
			return
		}
		patch.OccurredAt = occurredAt
	}

	expense, err := h.expenses.Update(c.Request.Context(), userID, expenseID, patch)
	if err != nil {
		FailFromError(c, err, "更新消费记录失败")
		return
	}

	SuccessWithMessage(c, "更新成功", expense)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.expenses.Delete(c.Request.Context(), userID, expenseID); err != nil {
		FailFromError(c, err, "删除消费记录失败")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
