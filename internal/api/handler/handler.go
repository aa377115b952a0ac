package handler

import "github.com/Revaz-Goguadze/ShiftCraft/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Shift     *ShiftHandler
	Leave     *LeaveHandler
	Schedule  *ScheduleHandler
	Timesheet *TimesheetHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		User:      NewUserHandler(svc.User),
		Shift:     NewShiftHandler(svc.Shift),
		Leave:     NewLeaveHandler(svc.Leave),
		Schedule:  NewScheduleHandler(svc.Schedule),
		Timesheet: NewTimesheetHandler(svc.Timesheet),
		Export:    NewExportHandler(svc.Export),
	}
}
