package dto

// ── 工时模块 DTO ──

// GenerateTimesheetRequest 生成工时表请求
type GenerateTimesheetRequest struct {
	UserID      string `json:"user_id"      binding:"required,uuid"`
	PeriodStart string `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end"   binding:"required,datetime=2006-01-02"`
}

// AddTimesheetEntryRequest 手工追加工时条目请求
type AddTimesheetEntryRequest struct {
	WorkDate     string `json:"work_date"     binding:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time"    binding:"required,datetime=15:04"`
	EndTime      string `json:"end_time"      binding:"required,datetime=15:04"`
	BreakMinutes int    `json:"break_minutes" binding:"omitempty,min=0"`
	EntryType    string `json:"entry_type"    binding:"omitempty,oneof=shift overtime manual_adjustment break_deduction"`
	Notes        string `json:"notes"         binding:"omitempty,max=500"`
}

// ReviewTimesheetRequest 审批工时表请求（批准 / 驳回共用）
type ReviewTimesheetRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// TimesheetResponse 工时表响应（工时为两位小数字符串）
type TimesheetResponse struct {
	ID            string                   `json:"id"`
	User          *UserBrief               `json:"user,omitempty"`
	PeriodStart   string                   `json:"period_start"`
	PeriodEnd     string                   `json:"period_end"`
	TotalHours    string                   `json:"total_hours"`
	RegularHours  string                   `json:"regular_hours"`
	OvertimeHours string                   `json:"overtime_hours"`
	Status        string                   `json:"status"`
	SubmittedAt   *string                  `json:"submitted_at,omitempty"`
	ApprovedAt    *string                  `json:"approved_at,omitempty"`
	ApprovedBy    *string                  `json:"approved_by,omitempty"`
	ReviewNotes   string                   `json:"review_notes,omitempty"`
	Entries       []TimesheetEntryResponse `json:"entries,omitempty"`
}

// TimesheetEntryResponse 工时条目响应
type TimesheetEntryResponse struct {
	ID           string  `json:"id"`
	AssignmentID *string `json:"assignment_id,omitempty"`
	WorkDate     string  `json:"work_date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	BreakMinutes int     `json:"break_minutes"`
	Hours        string  `json:"hours"`
	EntryType    string  `json:"entry_type"`
	Notes        string  `json:"notes,omitempty"`
}
