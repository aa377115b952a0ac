package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
)

// SkillRepository 技能数据访问接口
type SkillRepository interface {
	Create(ctx context.Context, skill *model.Skill) error
	GetByID(ctx context.Context, id string) (*model.Skill, error)
	List(ctx context.Context) ([]model.Skill, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Skill, error)
}

type skillRepo struct {
	db *gorm.DB
}

// NewSkillRepo 创建 SkillRepository 实例
func NewSkillRepo(db *gorm.DB) SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) Create(ctx context.Context, skill *model.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

func (r *skillRepo) GetByID(ctx context.Context, id string) (*model.Skill, error) {
	var skill model.Skill
	err := r.db.WithContext(ctx).
		Where("skill_id = ?", id).
		First(&skill).Error
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepo) List(ctx context.Context) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.db.WithContext(ctx).Order("category ASC, name ASC").Find(&skills).Error
	return skills, err
}

func (r *skillRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Skill, error) {
	var skills []model.Skill
	if len(ids) == 0 {
		return skills, nil
	}
	err := r.db.WithContext(ctx).Where("skill_id IN ?", ids).Find(&skills).Error
	return skills, err
}
