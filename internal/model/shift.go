package model

import "time"

// ShiftTemplate 班次模板表 — 对应 shift_templates
// start/end 为 "HH:MM" 时刻字符串；end < start 表示跨夜班
type ShiftTemplate struct {
	TemplateID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	LocationID     string `gorm:"type:uuid;not null"                             json:"location_id"`
	RoleID         string `gorm:"type:uuid;not null"                             json:"role_id"`
	StartTime      string `gorm:"type:varchar(5);not null"                       json:"start_time"`
	EndTime        string `gorm:"type:varchar(5);not null"                       json:"end_time"`
	BreakMinutes   int    `gorm:"not null;default:0"                             json:"break_minutes"`
	Description    string `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	MaxAssignments int    `gorm:"not null;default:1"                             json:"max_assignments"`
	IsActive       bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Location       *Location `gorm:"foreignKey:LocationID;references:LocationID" json:"location,omitempty"`
	Role           *Role     `gorm:"foreignKey:RoleID;references:RoleID"         json:"role,omitempty"`
	RequiredSkills []Skill   `gorm:"many2many:template_skill_requirements;foreignKey:TemplateID;joinForeignKey:TemplateID;references:SkillID;joinReferences:SkillID" json:"required_skills,omitempty"`
}

func (ShiftTemplate) TableName() string { return "shift_templates" }

// DurationMinutes 班次净时长（分钟）：(end − start) − break，跨夜班按 +24h 计
func (t *ShiftTemplate) DurationMinutes() int {
	return WorkedMinutes(t.StartTime, t.EndTime, t.BreakMinutes)
}

// ShiftInstance 班次实例表 — 对应 shift_instances
// 每个 (template_id, shift_date) 至多一个实例；仅 draft 状态可分配
type ShiftInstance struct {
	InstanceID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"instance_id"`
	TemplateID  string     `gorm:"type:uuid;not null"                             json:"template_id"`
	ShiftDate   time.Time  `gorm:"type:date;not null"                             json:"shift_date"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | published | cancelled
	PublishedAt *time.Time `json:"published_at,omitempty"`
	PublishedBy *string    `gorm:"type:uuid" json:"published_by,omitempty"`
	VersionedModel

	// 关联
	Template *ShiftTemplate `gorm:"foreignKey:TemplateID;references:TemplateID" json:"template,omitempty"`
}

func (ShiftInstance) TableName() string { return "shift_instances" }
