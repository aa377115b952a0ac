package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	pkgerrors "github.com/Revaz-Goguadze/ShiftCraft/pkg/errors"
)

// ShiftTemplateRepository 班次模板数据访问接口
type ShiftTemplateRepository interface {
	Create(ctx context.Context, tpl *model.ShiftTemplate) error
	GetByID(ctx context.Context, id string) (*model.ShiftTemplate, error)
	List(ctx context.Context, includeInactive bool) ([]model.ShiftTemplate, error)
	ListByLocation(ctx context.Context, locationID string) ([]model.ShiftTemplate, error)
	Update(ctx context.Context, tpl *model.ShiftTemplate) error
	ReplaceRequiredSkills(ctx context.Context, tpl *model.ShiftTemplate, skills []model.Skill) error
	Deactivate(ctx context.Context, id string, updatedBy string) error
}

type shiftTemplateRepo struct {
	db *gorm.DB
}

// NewShiftTemplateRepo 创建 ShiftTemplateRepository 实例
func NewShiftTemplateRepo(db *gorm.DB) ShiftTemplateRepository {
	return &shiftTemplateRepo{db: db}
}

func (r *shiftTemplateRepo) Create(ctx context.Context, tpl *model.ShiftTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *shiftTemplateRepo) GetByID(ctx context.Context, id string) (*model.ShiftTemplate, error) {
	var tpl model.ShiftTemplate
	err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Role").
		Preload("RequiredSkills").
		Where("template_id = ?", id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *shiftTemplateRepo) List(ctx context.Context, includeInactive bool) ([]model.ShiftTemplate, error) {
	var templates []model.ShiftTemplate
	db := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Role").
		Preload("RequiredSkills")

	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("name ASC").Find(&templates).Error
	return templates, err
}

func (r *shiftTemplateRepo) ListByLocation(ctx context.Context, locationID string) ([]model.ShiftTemplate, error) {
	var templates []model.ShiftTemplate
	err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Role").
		Preload("RequiredSkills").
		Where("location_id = ?", locationID).
		Order("name ASC").
		Find(&templates).Error
	return templates, err
}

func (r *shiftTemplateRepo) Update(ctx context.Context, tpl *model.ShiftTemplate) error {
	oldVersion := tpl.Version
	result := r.db.WithContext(ctx).
		Model(tpl).
		Where("template_id = ? AND version = ?", tpl.TemplateID, oldVersion).
		Updates(map[string]interface{}{
			"name":            tpl.Name,
			"location_id":     tpl.LocationID,
			"role_id":         tpl.RoleID,
			"start_time":      tpl.StartTime,
			"end_time":        tpl.EndTime,
			"break_minutes":   tpl.BreakMinutes,
			"description":     tpl.Description,
			"max_assignments": tpl.MaxAssignments,
			"is_active":       tpl.IsActive,
			"updated_by":      tpl.UpdatedBy,
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	tpl.Version = oldVersion + 1
	return nil
}

func (r *shiftTemplateRepo) ReplaceRequiredSkills(ctx context.Context, tpl *model.ShiftTemplate, skills []model.Skill) error {
	return r.db.WithContext(ctx).Model(tpl).Association("RequiredSkills").Replace(skills)
}

func (r *shiftTemplateRepo) Deactivate(ctx context.Context, id string, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ShiftTemplate{}).
		Where("template_id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_by": updatedBy,
		}).Error
}
