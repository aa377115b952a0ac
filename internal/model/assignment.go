package model

import "time"

// Assignment 排班分配表 — 对应 assignments
// 同一实例上同一用户至多一条 active 记录（数据库部分唯一索引兜底）
type Assignment struct {
	AssignmentID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	InstanceID   string     `gorm:"column:shift_instance_id;type:uuid;not null"    json:"shift_instance_id"`
	UserID       string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Status       string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | cancelled | completed | swap_requested | swapped
	AssignedBy   string     `gorm:"type:uuid"                                      json:"assigned_by"`
	AssignedAt   time.Time  `gorm:"not null"                                       json:"assigned_at"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	Notes        string     `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	VersionedModel

	// 关联
	Instance *ShiftInstance `gorm:"foreignKey:InstanceID;references:InstanceID" json:"instance,omitempty"`
	User     *User          `gorm:"foreignKey:UserID;references:UserID"         json:"user,omitempty"`
}

func (Assignment) TableName() string { return "assignments" }
