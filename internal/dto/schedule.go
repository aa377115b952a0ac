package dto

// ── 排班视图模块 DTO ──

// WeeklyScheduleRequest 周排班视图查询参数（date 为该周内任意一天）
type WeeklyScheduleRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// ScheduleRangeRequest 日期区间查询参数
type ScheduleRangeRequest struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"required,datetime=2006-01-02"`
}

// AvailabilityRequest 单人可用性查询参数
type AvailabilityRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// WeeklyScheduleResponse 周排班视图：周一为一周起点
type WeeklyScheduleResponse struct {
	WeekStart string                 `json:"week_start"`
	WeekEnd   string                 `json:"week_end"`
	Days      []DayScheduleResponse  `json:"days"`
	Leave     []LeaveRequestResponse `json:"leave"`
}

// DayScheduleResponse 单日排班视图
type DayScheduleResponse struct {
	Date   string                  `json:"date"`
	Shifts []ShiftInstanceResponse `json:"shifts"`
}

// UserWeeklyScheduleResponse 单人周排班视图
type UserWeeklyScheduleResponse struct {
	User        UserBrief              `json:"user"`
	WeekStart   string                 `json:"week_start"`
	WeekEnd     string                 `json:"week_end"`
	Assignments []AssignmentResponse   `json:"assignments"`
	Leave       []LeaveRequestResponse `json:"leave"`
}

// ConflictResponse 单用户单日的排班冲突（同日多个 active 分配）
type ConflictResponse struct {
	User        UserBrief            `json:"user"`
	Date        string               `json:"date"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// AvailabilityResponse 单人单日可用性
type AvailabilityResponse struct {
	User      UserBrief `json:"user"`
	Date      string    `json:"date"`
	Available bool      `json:"available"`
	Reason    string    `json:"reason,omitempty"` // on_leave | already_assigned
}
