package dto

// ── 请假模块 DTO ──

// CreateLeaveRequest 提交请假申请请求
type CreateLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   binding:"required,datetime=2006-01-02"`
	LeaveType string `json:"leave_type" binding:"required,oneof=annual sick personal emergency unpaid"`
	Reason    string `json:"reason"     binding:"omitempty,max=500"`
}

// ReviewLeaveRequest 审批请假申请请求（批准 / 驳回共用）
type ReviewLeaveRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// LeaveRequestResponse 请假申请响应
type LeaveRequestResponse struct {
	ID          string     `json:"id"`
	User        *UserBrief `json:"user,omitempty"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	LeaveType   string     `json:"leave_type"`
	Reason      string     `json:"reason,omitempty"`
	Status      string     `json:"status"`
	RequestedAt string     `json:"requested_at"`
	ReviewedAt  *string    `json:"reviewed_at,omitempty"`
	ReviewedBy  *string    `json:"reviewed_by,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`
}
