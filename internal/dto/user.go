package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Email    string   `json:"email"    binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8,max=64"`
	Name     string   `json:"name"     binding:"required,min=2,max=100"`
	Roles    []string `json:"roles"    binding:"omitempty,dive,oneof=admin manager staff"`
}

// UpdateUserRequest 更新用户请求（字段缺省表示不变）
type UpdateUserRequest struct {
	Name   *string  `json:"name"   binding:"omitempty,min=2,max=100"`
	Status *string  `json:"status" binding:"omitempty,oneof=active inactive suspended"`
	Roles  []string `json:"roles"  binding:"omitempty,dive,oneof=admin manager staff"`
}

// AssignSkillRequest 为用户绑定技能请求
type AssignSkillRequest struct {
	SkillID string `json:"skill_id" binding:"required,uuid"`
	Level   int    `json:"level"    binding:"omitempty,min=1,max=5"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=active inactive suspended"`
	PaginationRequest
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID        string              `json:"id"`
	Email     string              `json:"email"`
	Name      string              `json:"name"`
	Status    string              `json:"status"`
	Roles     []string            `json:"roles"`
	Skills    []UserSkillResponse `json:"skills,omitempty"`
	CreatedAt string              `json:"created_at"`
}

// UserSkillResponse 用户技能响应
type UserSkillResponse struct {
	SkillID  string `json:"skill_id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Level    int    `json:"level"`
}

// ── 技能 / 地点 DTO ──

// CreateSkillRequest 创建技能请求
type CreateSkillRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Category string `json:"category" binding:"omitempty,max=100"`
}

// CreateLocationRequest 创建工作地点请求
type CreateLocationRequest struct {
	Name    string `json:"name"    binding:"required,min=2,max=100"`
	Address string `json:"address" binding:"omitempty,max=255"`
}

// LocationResponse 工作地点响应
type LocationResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}
