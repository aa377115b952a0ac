package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	pkgerrors "github.com/Revaz-Goguadze/ShiftCraft/pkg/errors"
)

// LeaveRequestRepository 请假申请数据访问接口
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	ListByUser(ctx context.Context, userID string) ([]model.LeaveRequest, error)
	ListPending(ctx context.Context) ([]model.LeaveRequest, error)
	ListByStatus(ctx context.Context, status string) ([]model.LeaveRequest, error)
	// ListUserLeaveInPeriod 返回用户在区间内与之重叠的 pending/approved 申请
	ListUserLeaveInPeriod(ctx context.Context, userID string, start, end time.Time) ([]model.LeaveRequest, error)
	// ListApprovedInPeriod 返回全员在区间内重叠的 approved 申请
	ListApprovedInPeriod(ctx context.Context, start, end time.Time) ([]model.LeaveRequest, error)
	Update(ctx context.Context, req *model.LeaveRequest) error
}

type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo 创建 LeaveRequestRepository 实例
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *leaveRequestRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRequestRepo) ListByUser(ctx context.Context, userID string) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *leaveRequestRepo) ListPending(ctx context.Context) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", model.LeaveStatusPending).
		Order("requested_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *leaveRequestRepo) ListByStatus(ctx context.Context, status string) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", status).
		Order("requested_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *leaveRequestRepo) ListUserLeaveInPeriod(ctx context.Context, userID string, start, end time.Time) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{model.LeaveStatusPending, model.LeaveStatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *leaveRequestRepo) ListApprovedInPeriod(ctx context.Context, start, end time.Time) ([]model.LeaveRequest, error) {
	var requests []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", model.LeaveStatusApproved).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *leaveRequestRepo) Update(ctx context.Context, req *model.LeaveRequest) error {
	oldVersion := req.Version
	result := r.db.WithContext(ctx).
		Model(req).
		Where("request_id = ? AND version = ?", req.RequestID, oldVersion).
		Updates(map[string]interface{}{
			"status":       req.Status,
			"reviewed_at":  req.ReviewedAt,
			"reviewed_by":  req.ReviewedBy,
			"review_notes": req.ReviewNotes,
			"updated_by":   req.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version = oldVersion + 1
	return nil
}
