package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	pkgerrors "github.com/Revaz-Goguadze/ShiftCraft/pkg/errors"
)

// TimesheetRepository 工时表数据访问接口
type TimesheetRepository interface {
	Create(ctx context.Context, ts *model.Timesheet) error
	GetByID(ctx context.Context, id string) (*model.Timesheet, error)
	GetByUserAndPeriod(ctx context.Context, userID string, periodStart, periodEnd time.Time) (*model.Timesheet, error)
	ListByUser(ctx context.Context, userID string) ([]model.Timesheet, error)
	ListByStatus(ctx context.Context, status string) ([]model.Timesheet, error)
	Update(ctx context.Context, ts *model.Timesheet) error
}

type timesheetRepo struct {
	db *gorm.DB
}

// NewTimesheetRepo 创建 TimesheetRepository 实例
func NewTimesheetRepo(db *gorm.DB) TimesheetRepository {
	return &timesheetRepo{db: db}
}

func (r *timesheetRepo) Create(ctx context.Context, ts *model.Timesheet) error {
	return r.db.WithContext(ctx).Create(ts).Error
}

func (r *timesheetRepo) GetByID(ctx context.Context, id string) (*model.Timesheet, error) {
	var ts model.Timesheet
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("work_date ASC, start_time ASC")
		}).
		Where("timesheet_id = ?", id).
		First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *timesheetRepo) GetByUserAndPeriod(ctx context.Context, userID string, periodStart, periodEnd time.Time) (*model.Timesheet, error) {
	var ts model.Timesheet
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("work_date ASC, start_time ASC")
		}).
		Where("user_id = ? AND period_start = ? AND period_end = ?", userID, periodStart, periodEnd).
		First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *timesheetRepo) ListByUser(ctx context.Context, userID string) ([]model.Timesheet, error) {
	var timesheets []model.Timesheet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("period_start DESC").
		Find(&timesheets).Error
	return timesheets, err
}

func (r *timesheetRepo) ListByStatus(ctx context.Context, status string) ([]model.Timesheet, error) {
	var timesheets []model.Timesheet
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", status).
		Order("period_start ASC").
		Find(&timesheets).Error
	return timesheets, err
}

func (r *timesheetRepo) Update(ctx context.Context, ts *model.Timesheet) error {
	oldVersion := ts.Version
	result := r.db.WithContext(ctx).
		Model(ts).
		Where("timesheet_id = ? AND version = ?", ts.TimesheetID, oldVersion).
		Updates(map[string]interface{}{
			"total_hours":    ts.TotalHours,
			"regular_hours":  ts.RegularHours,
			"overtime_hours": ts.OvertimeHours,
			"status":         ts.Status,
			"submitted_at":   ts.SubmittedAt,
			"approved_at":    ts.ApprovedAt,
			"approved_by":    ts.ApprovedBy,
			"review_notes":   ts.ReviewNotes,
			"updated_by":     ts.UpdatedBy,
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	ts.Version = oldVersion + 1
	return nil
}
