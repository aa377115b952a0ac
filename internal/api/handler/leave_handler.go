package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/service"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/response"
)

// LeaveHandler 请假模块 HTTP 处理器
type LeaveHandler struct {
	leaveSvc service.LeaveService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc}
}

// Submit 提交请假申请（申请人为当前登录用户）
// POST /api/v1/leave-requests
func (h *LeaveHandler) Submit(c *gin.Context) {
	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		mapServiceError(c, 14002, err)
		return
	}

	response.Created(c, result)
}

// ListMy 我的请假申请列表
// GET /api/v1/leave-requests/my
func (h *LeaveHandler) ListMy(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.leaveSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// ListByStatus 按状态查询请假申请（审批与归档视图）
// GET /api/v1/leave-requests?status=approved
func (h *LeaveHandler) ListByStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		response.BadRequest(c, 14001, "status不能为空")
		return
	}

	items, err := h.leaveSvc.ListByStatus(c.Request.Context(), status)
	if err != nil {
		mapServiceError(c, 14007, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// ListApproved 查询区间内全部已批准请假（排班参考视图）
// GET /api/v1/leave-requests/approved?start_date=2026-09-07&end_date=2026-09-13
func (h *LeaveHandler) ListApproved(c *gin.Context) {
	var req dto.ScheduleRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	items, err := h.leaveSvc.ListApprovedInPeriod(c.Request.Context(), start, end)
	if err != nil {
		mapServiceError(c, 14008, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// ListPending 待审批请假申请列表（按提交时间升序）
// GET /api/v1/leave-requests/pending
func (h *LeaveHandler) ListPending(c *gin.Context) {
	items, err := h.leaveSvc.ListPending(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// Get 获取请假申请详情
// GET /api/v1/leave-requests/:id
func (h *LeaveHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "申请ID不能为空")
		return
	}

	result, err := h.leaveSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		mapServiceError(c, 14003, err)
		return
	}

	response.OK(c, result)
}

// Approve 批准请假申请
// POST /api/v1/leave-requests/:id/approve
func (h *LeaveHandler) Approve(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "申请ID不能为空")
		return
	}

	var req dto.ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.Approve(c.Request.Context(), id, reviewerID, &req)
	if err != nil {
		mapServiceError(c, 14004, err)
		return
	}

	response.OK(c, result)
}

// Reject 驳回请假申请
// POST /api/v1/leave-requests/:id/reject
func (h *LeaveHandler) Reject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "申请ID不能为空")
		return
	}

	var req dto.ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 14001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.Reject(c.Request.Context(), id, reviewerID, &req)
	if err != nil {
		mapServiceError(c, 14005, err)
		return
	}

	response.OK(c, result)
}

// Cancel 取消请假申请（仅申请人本人，仅待审批状态）
// POST /api/v1/leave-requests/:id/cancel
func (h *LeaveHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 14001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.Cancel(c.Request.Context(), id, callerID)
	if err != nil {
		mapServiceError(c, 14006, err)
		return
	}

	response.OK(c, result)
}
