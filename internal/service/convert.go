package service

import (
	"time"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
)

// ── 模型 → DTO 转换辅助（各 Service 共用） ──

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05Z"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTimestamp(*t)
	return &s
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.UserID, Name: u.Name, Email: u.Email}
}

func toUserResponse(u *model.User) *dto.UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	skills := make([]dto.UserSkillResponse, 0, len(u.Skills))
	for _, us := range u.Skills {
		s := dto.UserSkillResponse{SkillID: us.SkillID, Level: us.Level}
		if us.Skill != nil {
			s.Name = us.Skill.Name
			s.Category = us.Skill.Category
		}
		skills = append(skills, s)
	}
	return &dto.UserResponse{
		ID:        u.UserID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    u.Status,
		Roles:     roles,
		Skills:    skills,
		CreatedAt: formatTimestamp(u.CreatedAt),
	}
}

func toTemplateResponse(t *model.ShiftTemplate) *dto.ShiftTemplateResponse {
	resp := &dto.ShiftTemplateResponse{
		ID:              t.TemplateID,
		Name:            t.Name,
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		BreakMinutes:    t.BreakMinutes,
		DurationMinutes: t.DurationMinutes(),
		Description:     t.Description,
		MaxAssignments:  t.MaxAssignments,
		IsActive:        t.IsActive,
		CreatedAt:       formatTimestamp(t.CreatedAt),
	}
	if t.Location != nil {
		resp.Location = &dto.LocationBrief{ID: t.Location.LocationID, Name: t.Location.Name}
	}
	if t.Role != nil {
		resp.Role = &dto.RoleBrief{ID: t.Role.RoleID, Name: t.Role.Name}
	}
	for _, s := range t.RequiredSkills {
		resp.RequiredSkills = append(resp.RequiredSkills, dto.SkillBrief{
			ID: s.SkillID, Name: s.Name, Category: s.Category,
		})
	}
	return resp
}

func toInstanceResponse(inst *model.ShiftInstance, assignments []model.Assignment) *dto.ShiftInstanceResponse {
	resp := &dto.ShiftInstanceResponse{
		ID:          inst.InstanceID,
		TemplateID:  inst.TemplateID,
		ShiftDate:   inst.ShiftDate.Format(dateLayout),
		Status:      inst.Status,
		PublishedAt: formatTimestampPtr(inst.PublishedAt),
		CreatedAt:   formatTimestamp(inst.CreatedAt),
	}
	if inst.Template != nil {
		resp.Template = toTemplateResponse(inst.Template)
	}
	for i := range assignments {
		resp.Assignments = append(resp.Assignments, *toAssignmentResponse(&assignments[i]))
	}
	return resp
}

func toAssignmentResponse(a *model.Assignment) *dto.AssignmentResponse {
	return &dto.AssignmentResponse{
		ID:          a.AssignmentID,
		InstanceID:  a.InstanceID,
		User:        toUserBrief(a.User),
		Status:      a.Status,
		AssignedAt:  formatTimestamp(a.AssignedAt),
		CancelledAt: formatTimestampPtr(a.CancelledAt),
		Notes:       a.Notes,
	}
}

func toLeaveResponse(r *model.LeaveRequest) *dto.LeaveRequestResponse {
	return &dto.LeaveRequestResponse{
		ID:          r.RequestID,
		User:        toUserBrief(r.User),
		StartDate:   r.StartDate.Format(dateLayout),
		EndDate:     r.EndDate.Format(dateLayout),
		LeaveType:   r.LeaveType,
		Reason:      r.Reason,
		Status:      r.Status,
		RequestedAt: formatTimestamp(r.RequestedAt),
		ReviewedAt:  formatTimestampPtr(r.ReviewedAt),
		ReviewedBy:  r.ReviewedBy,
		ReviewNotes: r.ReviewNotes,
	}
}

func toTimesheetResponse(t *model.Timesheet) *dto.TimesheetResponse {
	resp := &dto.TimesheetResponse{
		ID:            t.TimesheetID,
		User:          toUserBrief(t.User),
		PeriodStart:   t.PeriodStart.Format(dateLayout),
		PeriodEnd:     t.PeriodEnd.Format(dateLayout),
		TotalHours:    t.TotalHours.StringFixed(2),
		RegularHours:  t.RegularHours.StringFixed(2),
		OvertimeHours: t.OvertimeHours.StringFixed(2),
		Status:        t.Status,
		SubmittedAt:   formatTimestampPtr(t.SubmittedAt),
		ApprovedAt:    formatTimestampPtr(t.ApprovedAt),
		ApprovedBy:    t.ApprovedBy,
		ReviewNotes:   t.ReviewNotes,
	}
	for i := range t.Entries {
		resp.Entries = append(resp.Entries, *toEntryResponse(&t.Entries[i]))
	}
	return resp
}

func toEntryResponse(e *model.TimesheetEntry) *dto.TimesheetEntryResponse {
	return &dto.TimesheetEntryResponse{
		ID:           e.EntryID,
		AssignmentID: e.AssignmentID,
		WorkDate:     e.WorkDate.Format(dateLayout),
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		BreakMinutes: e.BreakMinutes,
		Hours:        e.Hours.StringFixed(2),
		EntryType:    e.EntryType,
		Notes:        e.Notes,
	}
}

// parseDate 解析 "2006-01-02" 日期（绑定层已校验格式）
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// today 返回 UTC 当天零点（按日比较的基准）
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart 返回包含 date 的那一周的周一零点
func weekStart(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}
