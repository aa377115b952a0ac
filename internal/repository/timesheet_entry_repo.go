package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
)

// TimesheetEntryRepository 工时条目数据访问接口
type TimesheetEntryRepository interface {
	Create(ctx context.Context, entry *model.TimesheetEntry) error
	BatchCreate(ctx context.Context, entries []model.TimesheetEntry) error
	GetByID(ctx context.Context, id string) (*model.TimesheetEntry, error)
	ListByTimesheet(ctx context.Context, timesheetID string) ([]model.TimesheetEntry, error)
	Update(ctx context.Context, entry *model.TimesheetEntry) error
	DeleteByTimesheet(ctx context.Context, timesheetID string) error
}

type timesheetEntryRepo struct {
	db *gorm.DB
}

// NewTimesheetEntryRepo 创建 TimesheetEntryRepository 实例
func NewTimesheetEntryRepo(db *gorm.DB) TimesheetEntryRepository {
	return &timesheetEntryRepo{db: db}
}

func (r *timesheetEntryRepo) Create(ctx context.Context, entry *model.TimesheetEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timesheetEntryRepo) BatchCreate(ctx context.Context, entries []model.TimesheetEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *timesheetEntryRepo) GetByID(ctx context.Context, id string) (*model.TimesheetEntry, error) {
	var entry model.TimesheetEntry
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timesheetEntryRepo) ListByTimesheet(ctx context.Context, timesheetID string) ([]model.TimesheetEntry, error) {
	var entries []model.TimesheetEntry
	err := r.db.WithContext(ctx).
		Where("timesheet_id = ?", timesheetID).
		Order("work_date ASC, start_time ASC").
		Find(&entries).Error
	return entries, err
}

func (r *timesheetEntryRepo) Update(ctx context.Context, entry *model.TimesheetEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *timesheetEntryRepo) DeleteByTimesheet(ctx context.Context, timesheetID string) error {
	return r.db.WithContext(ctx).
		Where("timesheet_id = ?", timesheetID).
		Delete(&model.TimesheetEntry{}).Error
}
