package model

import "time"

// 请假类型
const (
	LeaveTypeAnnual    = "annual"
	LeaveTypeSick      = "sick"
	LeaveTypePersonal  = "personal"
	LeaveTypeEmergency = "emergency"
	LeaveTypeUnpaid    = "unpaid"
)

// ValidLeaveTypes 请假类型白名单
var ValidLeaveTypes = map[string]bool{
	LeaveTypeAnnual:    true,
	LeaveTypeSick:      true,
	LeaveTypePersonal:  true,
	LeaveTypeEmergency: true,
	LeaveTypeUnpaid:    true,
}

// LeaveRequest 请假申请表 — 对应 leave_requests
// 同一用户的 pending/approved 申请日期区间不得重叠（数据库 EXCLUDE 约束兜底）
type LeaveRequest struct {
	RequestID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	UserID      string     `gorm:"type:uuid;not null"                             json:"user_id"`
	StartDate   time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time  `gorm:"type:date;not null"                             json:"end_date"`
	LeaveType   string     `gorm:"type:varchar(20);not null"                      json:"leave_type"` // annual | sick | personal | emergency | unpaid
	Reason      string     `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected | cancelled
	RequestedAt time.Time  `gorm:"not null"                                       json:"requested_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy  *string    `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewNotes string     `gorm:"type:varchar(500)" json:"review_notes,omitempty"`
	VersionedModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (LeaveRequest) TableName() string { return "leave_requests" }

// Overlaps 判断申请区间与 [start, end]（闭区间，按日）是否重叠
func (r *LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

// Covers 判断某日期是否落在申请区间内
func (r *LeaveRequest) Covers(date time.Time) bool {
	return r.Overlaps(date, date)
}
