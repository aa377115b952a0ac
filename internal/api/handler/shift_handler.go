package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/service"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/response"
)

// ShiftHandler 班次模块 HTTP 处理器（地点 / 模板 / 实例 / 分配）
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// ────────────────────── 工作地点 ──────────────────────

// CreateLocation 创建工作地点
// POST /api/v1/locations
func (h *ShiftHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	location, err := h.shiftSvc.CreateLocation(c.Request.Context(), &req, callerID)
	if err != nil {
		mapServiceError(c, 13002, err)
		return
	}

	response.Created(c, location)
}

// ListLocations 工作地点列表
// GET /api/v1/locations
func (h *ShiftHandler) ListLocations(c *gin.Context) {
	locations, err := h.shiftSvc.ListLocations(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": locations})
}

// ────────────────────── 班次模板 ──────────────────────

// CreateTemplate 创建班次模板
// POST /api/v1/shift-templates
func (h *ShiftHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateShiftTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tpl, err := h.shiftSvc.CreateTemplate(c.Request.Context(), &req, callerID)
	if err != nil {
		mapServiceError(c, 13003, err)
		return
	}

	response.Created(c, tpl)
}

// GetTemplate 获取班次模板详情
// GET /api/v1/shift-templates/:id
func (h *ShiftHandler) GetTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "模板ID不能为空")
		return
	}

	tpl, err := h.shiftSvc.GetTemplate(c.Request.Context(), id)
	if err != nil {
		mapServiceError(c, 13004, err)
		return
	}

	response.OK(c, tpl)
}

// ListTemplates 班次模板列表（默认仅启用中的模板；可按地点筛选）
// GET /api/v1/shift-templates?include_inactive=true&location_id=xxx
func (h *ShiftHandler) ListTemplates(c *gin.Context) {
	if locationID := c.Query("location_id"); locationID != "" {
		templates, err := h.shiftSvc.ListTemplatesByLocation(c.Request.Context(), locationID)
		if err != nil {
			mapServiceError(c, 13015, err)
			return
		}
		response.OK(c, gin.H{"list": templates})
		return
	}

	includeInactive := c.Query("include_inactive") == "true"

	templates, err := h.shiftSvc.ListTemplates(c.Request.Context(), includeInactive)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": templates})
}

// UpdateTemplate 更新班次模板（字段缺省表示不变）
// PUT /api/v1/shift-templates/:id
func (h *ShiftHandler) UpdateTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "模板ID不能为空")
		return
	}

	var req dto.UpdateShiftTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tpl, err := h.shiftSvc.UpdateTemplate(c.Request.Context(), id, &req, callerID)
	if err != nil {
		mapServiceError(c, 13005, err)
		return
	}

	response.OK(c, tpl)
}

// DeactivateTemplate 停用班次模板（已有实例不受影响）
// DELETE /api/v1/shift-templates/:id
func (h *ShiftHandler) DeactivateTemplate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "模板ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.shiftSvc.DeactivateTemplate(c.Request.Context(), id, callerID); err != nil {
		mapServiceError(c, 13006, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── 班次实例 ──────────────────────

// CreateInstance 基于模板创建班次实例（草稿态）
// POST /api/v1/shift-instances
func (h *ShiftHandler) CreateInstance(c *gin.Context) {
	var req dto.CreateShiftInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	inst, err := h.shiftSvc.CreateInstance(c.Request.Context(), &req, callerID)
	if err != nil {
		mapServiceError(c, 13007, err)
		return
	}

	response.Created(c, inst)
}

// GetInstance 获取班次实例详情（含分配）
// GET /api/v1/shift-instances/:id
func (h *ShiftHandler) GetInstance(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "实例ID不能为空")
		return
	}

	inst, err := h.shiftSvc.GetInstance(c.Request.Context(), id)
	if err != nil {
		mapServiceError(c, 13008, err)
		return
	}

	response.OK(c, inst)
}

// ListInstances 按日期区间查询班次实例
// GET /api/v1/shift-instances?start_date=&end_date=&published_only=true
func (h *ShiftHandler) ListInstances(c *gin.Context) {
	var req dto.ScheduleRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	publishedOnly := c.Query("published_only") == "true"

	instances, err := h.shiftSvc.ListInstancesInRange(c.Request.Context(), start, end, publishedOnly)
	if err != nil {
		mapServiceError(c, 13009, err)
		return
	}

	response.OK(c, gin.H{"list": instances})
}

// PublishInstance 发布班次实例（draft → published）
// POST /api/v1/shift-instances/:id/publish
func (h *ShiftHandler) PublishInstance(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "实例ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	inst, err := h.shiftSvc.PublishInstance(c.Request.Context(), id, callerID)
	if err != nil {
		mapServiceError(c, 13010, err)
		return
	}

	response.OK(c, inst)
}

// CancelInstance 取消班次实例（终态）
// POST /api/v1/shift-instances/:id/cancel
func (h *ShiftHandler) CancelInstance(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "实例ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	inst, err := h.shiftSvc.CancelInstance(c.Request.Context(), id, callerID)
	if err != nil {
		mapServiceError(c, 13011, err)
		return
	}

	response.OK(c, inst)
}

// ────────────────────── 排班分配 ──────────────────────

// Assign 将用户分配到草稿态班次实例
// POST /api/v1/shift-instances/:id/assignments
func (h *ShiftHandler) Assign(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "实例ID不能为空")
		return
	}

	var req dto.AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	assignerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.shiftSvc.Assign(c.Request.Context(), id, &req, assignerID)
	if err != nil {
		mapServiceError(c, 13012, err)
		return
	}

	response.Created(c, assignment)
}

// CancelAssignment 取消排班分配
// POST /api/v1/assignments/:id/cancel
func (h *ShiftHandler) CancelAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "分配ID不能为空")
		return
	}

	var req dto.CancelAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.shiftSvc.CancelAssignment(c.Request.Context(), id, &req, callerID)
	if err != nil {
		mapServiceError(c, 13013, err)
		return
	}

	response.OK(c, assignment)
}

// CompleteAssignment 完成排班分配（终态）
// POST /api/v1/assignments/:id/complete
func (h *ShiftHandler) CompleteAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 13001, "分配ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.shiftSvc.CompleteAssignment(c.Request.Context(), id, callerID)
	if err != nil {
		mapServiceError(c, 13014, err)
		return
	}

	response.OK(c, assignment)
}
