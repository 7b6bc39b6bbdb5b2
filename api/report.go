package api

import (
	"strconv"

	"ledger/middleware"
	"ledger/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表处理器
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler 创建报表处理器
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Summary 获取时间范围内的消费汇总
// @Summary 获取消费汇总
// @Description 统计时间范围内的消费笔数与总额，范围参数可省略
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param from query string false "开始时间 (RFC3339)"
// @Param to query string false "结束时间 (RFC3339)"
// @Success 200 {object} Response{data=service.RangeSummary} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	from, ok := parseTimeParam(c, c.Query("from"))
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, c.Query("to"))
	if !ok {
		return
	}

	summary, err := h.reports.Summary(c.Request.Context(), userID, from, to)
	if err != nil {
		FailFromError(c, err, "生成汇总失败")
		return
	}

	Success(c, summary)
}

// Breakdown 获取按类别的消费汇总
// @Summary 获取类别消费汇总
// @Description 按类别汇总时间范围内的消费，按总额降序排列
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param from query string false "开始时间 (RFC3339)"
// @Param to query string false "结束时间 (RFC3339)"
// @Success 200 {object} Response{data=[]service.CategoryTotal} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/reports/breakdown [get]
func (h *ReportHandler) Breakdown(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	from, ok := parseTimeParam(c, c.Query("from"))
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, c.Query("to"))
	if !ok {
		return
	}

	breakdown, err := h.reports.Breakdown(c.Request.Context(), userID, from, to)
	if err != nil {
		FailFromError(c, err, "生成汇总失败")
		return
	}

	Success(c, breakdown)
}

// Top 获取消费最多的类别排行
// @Summary 获取类别消费排行
// @Description 时间范围内消费最多的前 n 个类别，n 默认为 5
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param from query string false "开始时间 (RFC3339)"
// @Param to query string false "结束时间 (RFC3339)"
// @Param n query int false "排行数量" default(5)
// @Success 200 {object} Response{data=[]service.CategoryTotal} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/reports/top [get]
func (h *ReportHandler) Top(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	from, ok := parseTimeParam(c, c.Query("from"))
	if !ok {
		return
	}
	to, ok := parseTimeParam(c, c.Query("to"))
	if !ok {
		return
	}

	n := 0
	if v := c.Query("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			BadRequest(c, "排行数量无效")
			return
		}
		n = parsed
	}

	top, err := h.reports.Top(c.Request.Context(), userID, from, to, n)
	if err != nil {
		FailFromError(c, err, "生成排行失败")
		return
	}

	Success(c, top)
}

// Monthly 获取月度消费报告
// @Summary 获取月度消费报告
// @Description 返回指定月份的消费总额、按类别汇总和消费最多的前 5 个类别
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param year query int false "年份，默认当前年"
// @Param month query int false "月份，默认当前月"
// @Success 200 {object} Response{data=service.MonthlyReport} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	year, month, ok := parseYearMonth(c)
	if !ok {
		return
	}

	report, err := h.reports.Monthly(c.Request.Context(), userID, year, month)
	if err != nil {
		FailFromError(c, err, "生成报表失败")
		return
	}

	Success(c, report)
}
