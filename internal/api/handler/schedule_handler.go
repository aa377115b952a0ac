package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/service"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/response"
)

// ScheduleHandler 排班视图模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Weekly 全员周视图（周一为一周起点，仅含已发布班次）
// GET /api/v1/schedule/weekly?date=2006-01-02
func (h *ScheduleHandler) Weekly(c *gin.Context) {
	var req dto.WeeklyScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	schedule, err := h.scheduleSvc.WeeklySchedule(c.Request.Context(), date)
	if err != nil {
		mapServiceError(c, 15002, err)
		return
	}

	response.OK(c, schedule)
}

// MyWeekly 我的周视图（本人分配 + 本人请假）
// GET /api/v1/schedule/my?date=2006-01-02
func (h *ScheduleHandler) MyWeekly(c *gin.Context) {
	var req dto.WeeklyScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	schedule, err := h.scheduleSvc.UserWeeklySchedule(c.Request.Context(), userID, date)
	if err != nil {
		mapServiceError(c, 15003, err)
		return
	}

	response.OK(c, schedule)
}

// UserWeekly 指定用户周视图
// GET /api/v1/schedule/users/:id?date=2006-01-02
func (h *ScheduleHandler) UserWeekly(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "用户ID不能为空")
		return
	}

	var req dto.WeeklyScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	schedule, err := h.scheduleSvc.UserWeeklySchedule(c.Request.Context(), id, date)
	if err != nil {
		mapServiceError(c, 15003, err)
		return
	}

	response.OK(c, schedule)
}

// Conflicts 检测指定用户在区间内的同日多班冲突
// GET /api/v1/schedule/users/:id/conflicts?start_date=&end_date=
func (h *ScheduleHandler) Conflicts(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "用户ID不能为空")
		return
	}

	var req dto.ScheduleRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	conflicts, err := h.scheduleSvc.Conflicts(c.Request.Context(), id, start, end)
	if err != nil {
		mapServiceError(c, 15004, err)
		return
	}

	response.OK(c, gin.H{"list": conflicts})
}

// Availability 查询指定用户某天是否可排班
// GET /api/v1/schedule/users/:id/availability?date=2006-01-02
func (h *ScheduleHandler) Availability(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 15001, "用户ID不能为空")
		return
	}

	var req dto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	result, err := h.scheduleSvc.IsAvailable(c.Request.Context(), id, date)
	if err != nil {
		mapServiceError(c, 15005, err)
		return
	}

	response.OK(c, result)
}

// StaffAvailability 区间内全员可用日期映射（user_id → 可用日期列表）
// GET /api/v1/schedule/availability?start_date=&end_date=
func (h *ScheduleHandler) StaffAvailability(c *gin.Context) {
	var req dto.ScheduleRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 15001, "参数校验失败")
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	result, err := h.scheduleSvc.StaffAvailability(c.Request.Context(), start, end)
	if err != nil {
		mapServiceError(c, 15006, err)
		return
	}

	response.OK(c, result)
}
