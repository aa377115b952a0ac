package model

import "time"

// 用户状态：仅门禁认证使用，不参与排班业务规则
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// 基础角色目录（roles.name 为等值键）
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Status       string `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | inactive | suspended
	VersionedModel

	// 关联（单向持有：Role/Skill 不反向引用用户）
	Roles  []Role      `gorm:"many2many:user_roles;foreignKey:UserID;joinForeignKey:UserID;references:RoleID;joinReferences:RoleID" json:"roles,omitempty"`
	Skills []UserSkill `gorm:"foreignKey:UserID;references:UserID" json:"skills,omitempty"`
}

func (User) TableName() string { return "users" }

// HasRole 判断用户是否持有指定角色（按角色名等值）
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Role 角色表 — 对应 roles
type Role struct {
	RoleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"role_id"`
	Name   string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"name"`
	BaseModel
}

func (Role) TableName() string { return "roles" }

// Skill 技能表 — 对应 skills
type Skill struct {
	SkillID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"skill_id"`
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Category string `gorm:"type:varchar(100)"                              json:"category,omitempty"`
	BaseModel
}

func (Skill) TableName() string { return "skills" }

// UserSkill 用户技能等级表 — 对应 user_skills
type UserSkill struct {
	UserSkillID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_skill_id"`
	UserID      string    `gorm:"type:uuid;not null"                             json:"user_id"`
	SkillID     string    `gorm:"type:uuid;not null"                             json:"skill_id"`
	Level       int       `gorm:"type:smallint;not null;default:1"               json:"level"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Skill *Skill `gorm:"foreignKey:SkillID;references:SkillID" json:"skill,omitempty"`
}

func (UserSkill) TableName() string { return "user_skills" }
