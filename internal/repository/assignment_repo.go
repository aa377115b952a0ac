package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	pkgerrors "github.com/Revaz-Goguadze/ShiftCraft/pkg/errors"
)

// AssignmentRepository 排班分配数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	ListByInstance(ctx context.Context, instanceID string, activeOnly bool) ([]model.Assignment, error)
	CountActiveByInstance(ctx context.Context, instanceID string) (int64, error)
	ListByUserInRange(ctx context.Context, userID string, start, end time.Time, statuses []string) ([]model.Assignment, error)
	ListActiveInRange(ctx context.Context, start, end time.Time) ([]model.Assignment, error)
	Update(ctx context.Context, a *model.Assignment) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Instance").
		Preload("Instance.Template").
		Preload("User").
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) ListByInstance(ctx context.Context, instanceID string, activeOnly bool) ([]model.Assignment, error) {
	var assignments []model.Assignment
	db := r.db.WithContext(ctx).
		Preload("User").
		Where("shift_instance_id = ?", instanceID)

	if activeOnly {
		db = db.Where("status = ?", model.AssignmentStatusActive)
	}

	err := db.Order("assigned_at ASC").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) CountActiveByInstance(ctx context.Context, instanceID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("shift_instance_id = ? AND status = ?", instanceID, model.AssignmentStatusActive).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepo) ListByUserInRange(ctx context.Context, userID string, start, end time.Time, statuses []string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	db := r.db.WithContext(ctx).
		Preload("Instance").
		Preload("Instance.Template").
		Preload("Instance.Template.Location").
		Joins("JOIN shift_instances ON shift_instances.instance_id = assignments.shift_instance_id").
		Where("assignments.user_id = ?", userID).
		Where("shift_instances.shift_date BETWEEN ? AND ?", start, end).
		Where("shift_instances.deleted_at IS NULL")

	if len(statuses) > 0 {
		db = db.Where("assignments.status IN ?", statuses)
	}

	err := db.Order("shift_instances.shift_date ASC").Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListActiveInRange(ctx context.Context, start, end time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Instance").
		Preload("Instance.Template").
		Preload("Instance.Template.Location").
		Preload("User").
		Joins("JOIN shift_instances ON shift_instances.instance_id = assignments.shift_instance_id").
		Where("assignments.status = ?", model.AssignmentStatusActive).
		Where("shift_instances.shift_date BETWEEN ? AND ?", start, end).
		Where("shift_instances.deleted_at IS NULL").
		Order("shift_instances.shift_date ASC, assignments.assigned_at ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) Update(ctx context.Context, a *model.Assignment) error {
	oldVersion := a.Version
	result := r.db.WithContext(ctx).
		Model(a).
		Where("assignment_id = ? AND version = ?", a.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"status":       a.Status,
			"cancelled_at": a.CancelledAt,
			"notes":        a.Notes,
			"updated_by":   a.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	a.Version = oldVersion + 1
	return nil
}
