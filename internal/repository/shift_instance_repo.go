package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	pkgerrors "github.com/Revaz-Goguadze/ShiftCraft/pkg/errors"
)

// ShiftInstanceRepository 班次实例数据访问接口
type ShiftInstanceRepository interface {
	Create(ctx context.Context, inst *model.ShiftInstance) error
	GetByID(ctx context.Context, id string) (*model.ShiftInstance, error)
	GetByTemplateAndDate(ctx context.Context, templateID string, date time.Time) (*model.ShiftInstance, error)
	ListInRange(ctx context.Context, start, end time.Time, statuses []string) ([]model.ShiftInstance, error)
	Update(ctx context.Context, inst *model.ShiftInstance) error
}

type shiftInstanceRepo struct {
	db *gorm.DB
}

// NewShiftInstanceRepo 创建 ShiftInstanceRepository 实例
func NewShiftInstanceRepo(db *gorm.DB) ShiftInstanceRepository {
	return &shiftInstanceRepo{db: db}
}

func (r *shiftInstanceRepo) Create(ctx context.Context, inst *model.ShiftInstance) error {
	return r.db.WithContext(ctx).Create(inst).Error
}

func (r *shiftInstanceRepo) GetByID(ctx context.Context, id string) (*model.ShiftInstance, error) {
	var inst model.ShiftInstance
	err := r.db.WithContext(ctx).
		Preload("Template").
		Preload("Template.Location").
		Preload("Template.Role").
		Preload("Template.RequiredSkills").
		Where("instance_id = ?", id).
		First(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *shiftInstanceRepo) GetByTemplateAndDate(ctx context.Context, templateID string, date time.Time) (*model.ShiftInstance, error) {
	var inst model.ShiftInstance
	err := r.db.WithContext(ctx).
		Where("template_id = ? AND shift_date = ?", templateID, date).
		First(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *shiftInstanceRepo) ListInRange(ctx context.Context, start, end time.Time, statuses []string) ([]model.ShiftInstance, error) {
	var instances []model.ShiftInstance
	db := r.db.WithContext(ctx).
		Preload("Template").
		Preload("Template.Location").
		Preload("Template.Role").
		Where("shift_date BETWEEN ? AND ?", start, end)

	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}

	err := db.Order("shift_date ASC").Find(&instances).Error
	return instances, err
}

func (r *shiftInstanceRepo) Update(ctx context.Context, inst *model.ShiftInstance) error {
	oldVersion := inst.Version
	result := r.db.WithContext(ctx).
		Model(inst).
		Where("instance_id = ? AND version = ?", inst.InstanceID, oldVersion).
		Updates(map[string]interface{}{
			"status":       inst.Status,
			"published_at": inst.PublishedAt,
			"published_by": inst.PublishedBy,
			"updated_by":   inst.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	inst.Version = oldVersion + 1
	return nil
}
