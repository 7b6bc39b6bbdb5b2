package api

import (
	"strconv"
	"time"

	"ledger/middleware"
	"ledger/repository"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// GoalHandler 消费目标处理器
type GoalHandler struct {
	goals *service.GoalService
}

// NewGoalHandler 创建目标处理器
func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// SetGoalRequest 设置目标请求
// goal_id 缺省时新建目标，否则更新指定目标
type SetGoalRequest struct {
	GoalID    *uint   `json:"goal_id" example:"1"`
	GoalLimit float64 `json:"goal_limit" binding:"required,gt=0" example:"3000"`
}

// UpdateGoalRequest 更新目标请求
type UpdateGoalRequest struct {
	GoalLimit *float64 `json:"goal_limit" example:"3500"`
}

// parseYearMonth 解析年月查询参数，缺省时取当前 UTC 年月
func parseYearMonth(c *gin.Context) (int, int, bool) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			BadRequest(c, "年份格式错误")
			return 0, 0, false
		}
		year = parsed
	}
	if v := c.Query("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			BadRequest(c, "月份格式错误")
			return 0, 0, false
		}
		month = parsed
	}
	return year, month, true
}

// Set 设置消费目标
// @Summary 设置消费目标
// @Description 设置新的消费目标限额，新目标立即成为当前生效目标
// @Tags 目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetGoalRequest true "目标信息"
// @Success 200 {object} Response{data=models.Goal} "设置成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Set(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	goal, err := h.goals.Set(c.Request.Context(), userID, req.GoalID, req.GoalLimit)
	if err != nil {
		FailFromError(c, err, "设置目标失败")
		return
	}

	SuccessWithMessage(c, "设置成功", goal)
}

// Current 获取当前生效的目标
// @Summary 获取当前目标
// @Description 返回最新创建的消费目标
// @Tags 目标
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Goal} "获取成功"
// @Failure 404 {object} Response "尚未设置目标"
// @Router /api/v1/goals/current [get]
func (h *GoalHandler) Current(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	goal, err := h.goals.Current(c.Request.Context(), userID)
	if err != nil {
		FailFromError(c, err, "获取目标失败")
		return
	}

	Success(c, goal)
}

// Update 更新目标
// @Summary 更新目标限额
// @Tags 目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标 ID"
// @Param request body UpdateGoalRequest true "目标信息"
// @Success 200 {object} Response{data=models.Goal} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	goal, err := h.goals.Update(c.Request.Context(), userID, goalID, repository.GoalPatch{
		GoalLimit: req.GoalLimit,
	})
	if err != nil {
		FailFromError(c, err, "更新目标失败")
		return
	}

	SuccessWithMessage(c, "更新成功", goal)
}

// Delete 删除目标
// @Summary 删除目标
// @Tags 目标
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "目标不存在"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	goalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.goals.Delete(c.Request.Context(), userID, goalID); err != nil {
		FailFromError(c, err, "删除目标失败")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// Progress 获取目标完成进度
// @Summary 获取目标完成进度
// @Description 对比当前目标限额与指定月份的消费总额，difference 为负表示超支
// @Tags 目标
// @Produce json
// @Security BearerAuth
// @Param year query int false "年份，默认当前年"
// @Param month query int false "月份，默认当前月"
// @Param goal_id query int false "目标 ID，默认取当前生效目标"
// @Success 200 {object} Response{data=service.GoalProgress} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "尚未设置目标"
// @Router /api/v1/goals/progress [get]
func (h *GoalHandler) Progress(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}

	var goalID *uint
	if v := c.Query("goal_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil || parsed == 0 {
			BadRequest(c, "无效的目标 ID")
			return
		}
		id := uint(parsed)
		goalID = &id
	}

	progress, err := h.goals.Progress(c.Request.Context(), userID, year, month, goalID)
	if err != nil {
		FailFromError(c, err, "获取目标进度失败")
		return
	}

	Success(c, progress)
}
