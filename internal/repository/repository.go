package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User           UserRepository
	Role           RoleRepository
	Skill          SkillRepository
	Location       LocationRepository
	ShiftTemplate  ShiftTemplateRepository
	ShiftInstance  ShiftInstanceRepository
	Assignment     AssignmentRepository
	LeaveRequest   LeaveRequestRepository
	Timesheet      TimesheetRepository
	TimesheetEntry TimesheetEntryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		User:           NewUserRepo(db),
		Role:           NewRoleRepo(db),
		Skill:          NewSkillRepo(db),
		Location:       NewLocationRepo(db),
		ShiftTemplate:  NewShiftTemplateRepo(db),
		ShiftInstance:  NewShiftInstanceRepo(db),
		Assignment:     NewAssignmentRepo(db),
		LeaveRequest:   NewLeaveRequestRepo(db),
		Timesheet:      NewTimesheetRepo(db),
		TimesheetEntry: NewTimesheetEntryRepo(db),
	}
}

// WithTx 在事务内执行 fn；fn 返回错误时回滚，否则提交。
// 聚合未持有数据库连接时（按字段直接组装的 Repository）直接执行 fn。
func (r *Repository) WithTx(fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
