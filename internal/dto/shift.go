package dto

// ── 班次模块 DTO ──

// CreateShiftTemplateRequest 创建班次模板请求
type CreateShiftTemplateRequest struct {
	Name             string   `json:"name"               binding:"required,min=2,max=100"`
	LocationID       string   `json:"location_id"        binding:"required,uuid"`
	RoleID           string   `json:"role_id"            binding:"required,uuid"`
	StartTime        string   `json:"start_time"         binding:"required,datetime=15:04"`
	EndTime          string   `json:"end_time"           binding:"required,datetime=15:04"`
	BreakMinutes     int      `json:"break_minutes"      binding:"omitempty,min=0"`
	Description      string   `json:"description"        binding:"omitempty,max=500"`
	MaxAssignments   int      `json:"max_assignments"    binding:"omitempty,min=1"`
	RequiredSkillIDs []string `json:"required_skill_ids" binding:"omitempty,dive,uuid"`
}

// UpdateShiftTemplateRequest 更新班次模板请求（字段缺省表示不变）
type UpdateShiftTemplateRequest struct {
	Name             *string  `json:"name"               binding:"omitempty,min=2,max=100"`
	LocationID       *string  `json:"location_id"        binding:"omitempty,uuid"`
	RoleID           *string  `json:"role_id"            binding:"omitempty,uuid"`
	StartTime        *string  `json:"start_time"         binding:"omitempty,datetime=15:04"`
	EndTime          *string  `json:"end_time"           binding:"omitempty,datetime=15:04"`
	BreakMinutes     *int     `json:"break_minutes"      binding:"omitempty,min=0"`
	Description      *string  `json:"description"        binding:"omitempty,max=500"`
	MaxAssignments   *int     `json:"max_assignments"    binding:"omitempty,min=1"`
	IsActive         *bool    `json:"is_active"`
	RequiredSkillIDs []string `json:"required_skill_ids" binding:"omitempty,dive,uuid"`
}

// ShiftTemplateResponse 班次模板响应
type ShiftTemplateResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Location        *LocationBrief `json:"location,omitempty"`
	Role            *RoleBrief     `json:"role,omitempty"`
	StartTime       string         `json:"start_time"`
	EndTime         string         `json:"end_time"`
	BreakMinutes    int            `json:"break_minutes"`
	DurationMinutes int            `json:"duration_minutes"`
	Description     string         `json:"description,omitempty"`
	MaxAssignments  int            `json:"max_assignments"`
	IsActive        bool           `json:"is_active"`
	RequiredSkills  []SkillBrief   `json:"required_skills,omitempty"`
	CreatedAt       string         `json:"created_at"`
}

// CreateShiftInstanceRequest 创建班次实例请求
type CreateShiftInstanceRequest struct {
	TemplateID string `json:"template_id" binding:"required,uuid"`
	ShiftDate  string `json:"shift_date"  binding:"required,datetime=2006-01-02"`
}

// ShiftInstanceResponse 班次实例响应
type ShiftInstanceResponse struct {
	ID          string                 `json:"id"`
	TemplateID  string                 `json:"template_id"`
	Template    *ShiftTemplateResponse `json:"template,omitempty"`
	ShiftDate   string                 `json:"shift_date"`
	Status      string                 `json:"status"`
	PublishedAt *string                `json:"published_at,omitempty"`
	Assignments []AssignmentResponse   `json:"assignments,omitempty"`
	CreatedAt   string                 `json:"created_at"`
}

// AssignUserRequest 分配用户到班次实例请求
type AssignUserRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Notes  string `json:"notes"   binding:"omitempty,max=500"`
}

// CancelAssignmentRequest 取消分配请求（必须说明原因）
type CancelAssignmentRequest struct {
	Notes string `json:"notes" binding:"required,max=500"`
}

// AssignmentResponse 排班分配响应
type AssignmentResponse struct {
	ID          string     `json:"id"`
	InstanceID  string     `json:"shift_instance_id"`
	User        *UserBrief `json:"user,omitempty"`
	Status      string     `json:"status"`
	AssignedAt  string     `json:"assigned_at"`
	CancelledAt *string    `json:"cancelled_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}
