package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 工时条目类型
const (
	EntryTypeShift            = "shift"
	EntryTypeOvertime         = "overtime"
	EntryTypeManualAdjustment = "manual_adjustment"
	EntryTypeBreakDeduction   = "break_deduction"
)

// ValidEntryTypes 工时条目类型白名单
var ValidEntryTypes = map[string]bool{
	EntryTypeShift:            true,
	EntryTypeOvertime:         true,
	EntryTypeManualAdjustment: true,
	EntryTypeBreakDeduction:   true,
}

// RegularHoursThreshold 每周期常规工时上限，超出部分计为加班
var RegularHoursThreshold = decimal.NewFromInt(40)

// Timesheet 工时表 — 对应 timesheets
// 每个 (用户, 周期起, 周期止) 唯一；三项合计始终由条目重新推导
type Timesheet struct {
	TimesheetID   string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timesheet_id"`
	UserID        string          `gorm:"type:uuid;not null"                             json:"user_id"`
	PeriodStart   time.Time       `gorm:"type:date;not null"                             json:"period_start"`
	PeriodEnd     time.Time       `gorm:"type:date;not null"                             json:"period_end"`
	TotalHours    decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"           json:"total_hours"`
	RegularHours  decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"           json:"regular_hours"`
	OvertimeHours decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"           json:"overtime_hours"`
	Status        string          `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | submitted | approved | rejected
	SubmittedAt   *time.Time      `json:"submitted_at,omitempty"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy    *string         `gorm:"type:uuid" json:"approved_by,omitempty"`
	ReviewNotes   string          `gorm:"type:varchar(500)" json:"review_notes,omitempty"`
	VersionedModel

	// 关联
	User    *User            `gorm:"foreignKey:UserID;references:UserID"            json:"user,omitempty"`
	Entries []TimesheetEntry `gorm:"foreignKey:TimesheetID;references:TimesheetID" json:"entries,omitempty"`
}

func (Timesheet) TableName() string { return "timesheets" }

// CalculateTotals 由条目重算三项合计：total = Σ entry.hours，
// regular = min(total, 40)，overtime = max(total − 40, 0)。
// 重复调用结果不变。
func (t *Timesheet) CalculateTotals() {
	total := decimal.Zero
	for i := range t.Entries {
		total = total.Add(t.Entries[i].Hours)
	}
	total = total.Round(2)
	t.TotalHours = total
	if total.GreaterThan(RegularHoursThreshold) {
		t.RegularHours = RegularHoursThreshold
		t.OvertimeHours = total.Sub(RegularHoursThreshold)
	} else {
		t.RegularHours = total
		t.OvertimeHours = decimal.Zero
	}
}

// TimesheetEntry 工时条目表 — 对应 timesheet_entries
// hours 为派生字段：起止时刻或休息分钟变化后必须重新计算
type TimesheetEntry struct {
	EntryID      string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	TimesheetID  string          `gorm:"type:uuid;not null"                             json:"timesheet_id"`
	AssignmentID *string         `gorm:"type:uuid"                                      json:"assignment_id,omitempty"`
	WorkDate     time.Time       `gorm:"type:date;not null"                             json:"work_date"`
	StartTime    string          `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime      string          `gorm:"type:varchar(5);not null"                       json:"end_time"`
	BreakMinutes int             `gorm:"not null;default:0"                             json:"break_minutes"`
	Hours        decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"           json:"hours"`
	EntryType    string          `gorm:"type:varchar(30);not null;default:'shift'"      json:"entry_type"` // shift | overtime | manual_adjustment | break_deduction
	Notes        string          `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	BaseModel
}

func (TimesheetEntry) TableName() string { return "timesheet_entries" }

// CalculateHours 由起止时刻与休息分钟重算 hours（保留两位，四舍五入）
func (e *TimesheetEntry) CalculateHours() {
	minutes := WorkedMinutes(e.StartTime, e.EndTime, e.BreakMinutes)
	e.Hours = decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// WorkedMinutes 计算净工作分钟数：(end − start) − break。
// end < start 视为跨夜班，先补 24h；扣除休息后为负时取 0。
func WorkedMinutes(startTime, endTime string, breakMinutes int) int {
	start, err1 := time.Parse("15:04", startTime)
	end, err2 := time.Parse("15:04", endTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		minutes += 24 * 60
	}
	minutes -= breakMinutes
	if minutes < 0 {
		minutes = 0
	}
	return minutes
}
