package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/service"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/response"
)

// TimesheetHandler 工时模块 HTTP 处理器
type TimesheetHandler struct {
	timesheetSvc service.TimesheetService
}

// NewTimesheetHandler 创建 TimesheetHandler
func NewTimesheetHandler(timesheetSvc service.TimesheetService) *TimesheetHandler {
	return &TimesheetHandler{timesheetSvc: timesheetSvc}
}

// Generate 按周期生成工时表（物化区间内的生效分配）
// POST /api/v1/timesheets/generate
func (h *TimesheetHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Generate(c.Request.Context(), &req, callerID)
	if err != nil {
		mapServiceError(c, 16002, err)
		return
	}

	response.Created(c, ts)
}

// GenerateWeekly 生成当前登录用户指定日期所在周的工时表
// POST /api/v1/timesheets/generate-weekly?date=2006-01-02
func (h *TimesheetHandler) GenerateWeekly(c *gin.Context) {
	var req dto.WeeklyScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	ts, err := h.timesheetSvc.GenerateWeekly(c.Request.Context(), userID, date, userID)
	if err != nil {
		mapServiceError(c, 16003, err)
		return
	}

	response.Created(c, ts)
}

// Get 获取工时表详情（含条目）
// GET /api/v1/timesheets/:id
func (h *TimesheetHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 16001, "工时表ID不能为空")
		return
	}

	ts, err := h.timesheetSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		mapServiceError(c, 16004, err)
		return
	}

	response.OK(c, ts)
}

// ListMy 我的工时表列表
// GET /api/v1/timesheets/my
func (h *TimesheetHandler) ListMy(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.timesheetSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// ListByUser 指定用户的工时表列表
// GET /api/v1/timesheets/users/:id
func (h *TimesheetHandler) ListByUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 16001, "用户ID不能为空")
		return
	}

	items, err := h.timesheetSvc.ListByUser(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// ListByStatus 按状态查询工时表（审批队列）
// GET /api/v1/timesheets?status=submitted
func (h *TimesheetHandler) ListByStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		response.BadRequest(c, 16001, "status不能为空")
		return
	}

	items, err := h.timesheetSvc.ListByStatus(c.Request.Context(), status)
	if err != nil {
		mapServiceError(c, 16005, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// AddEntry 向草稿工时表追加手工条目并重算合计
// POST /api/v1/timesheets/:id/entries
func (h *TimesheetHandler) AddEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 16001, "工时表ID不能为空")
		return
	}

	var req dto.AddTimesheetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.AddManualEntry(c.Request.Context(), id, &req, callerID)
	if err != nil {
		mapServiceError(c, 16006, err)
		return
	}

	response.OK(c, ts)
}

// Submit 提交工时表送审（draft → submitted）
// POST /api/v1/timesheets/:id/submit
func (h *TimesheetHandler) Submit(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 16001, "工时表ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Submit(c.Request.Context(), id, callerID)
	if err != nil {
		mapServiceError(c, 16007, err)
		return
	}

	response.OK(c, ts)
}

// Approve 批准工时表（submitted → approved）
// POST /api/v1/timesheets/:id/approve
func (h *TimesheetHandler) Approve(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 16001, "工时表ID不能为空")
		return
	}

	var req dto.ReviewTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	approverID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Approve(c.Request.Context(), id, approverID, &req)
	if err != nil {
		mapServiceError(c, 16008, err)
		return
	}

	response.OK(c, ts)
}

// Reject 驳回工时表（submitted → rejected）
// POST /api/v1/timesheets/:id/reject
func (h *TimesheetHandler) Reject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 16001, "工时表ID不能为空")
		return
	}

	var req dto.ReviewTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ts, err := h.timesheetSvc.Reject(c.Request.Context(), id, reviewerID, &req)
	if err != nil {
		mapServiceError(c, 16009, err)
		return
	}

	response.OK(c, ts)
}
