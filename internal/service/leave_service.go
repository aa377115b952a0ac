package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/repository"
	pkgerrors "github.com/Revaz-Goguadze/ShiftCraft/pkg/errors"
)

// ── 请假模块业务错误 ──

var (
	ErrLeaveRequestNotFound = fmt.Errorf("%w: 请假申请不存在", pkgerrors.ErrNotFound)
	ErrLeaveUserNotFound    = fmt.Errorf("%w: 用户不存在", pkgerrors.ErrNotFound)
	ErrLeaveInvalidPeriod   = fmt.Errorf("%w: 开始日期不能晚于结束日期", pkgerrors.ErrInvalidArgument)
	ErrLeaveStartInPast     = fmt.Errorf("%w: 开始日期不能早于今天", pkgerrors.ErrInvalidArgument)
	ErrLeaveOverlap         = fmt.Errorf("%w: 与已有待审批或已批准的请假申请时间重叠", pkgerrors.ErrConflict)
	ErrLeaveNotPending      = fmt.Errorf("%w: 仅待审批的申请可执行该操作", pkgerrors.ErrInvalidState)
	ErrLeaveNotOwner        = fmt.Errorf("%w: 仅申请人本人可取消", pkgerrors.ErrInvalidState)
	ErrLeaveBadStatus       = fmt.Errorf("%w: 无效的请假状态", pkgerrors.ErrInvalidArgument)
	ErrLeaveBadType         = fmt.Errorf("%w: 无效的请假类型", pkgerrors.ErrInvalidArgument)
)

// LeaveService 请假业务接口
type LeaveService interface {
	Submit(ctx context.Context, userID string, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error)
	Approve(ctx context.Context, requestID, reviewerID string, req *dto.ReviewLeaveRequest) (*dto.LeaveRequestResponse, error)
	Reject(ctx context.Context, requestID, reviewerID string, req *dto.ReviewLeaveRequest) (*dto.LeaveRequestResponse, error)
	Cancel(ctx context.Context, requestID, callerID string) (*dto.LeaveRequestResponse, error)
	HasApprovedLeave(ctx context.Context, userID string, start, end time.Time) (bool, error)
	GetByID(ctx context.Context, requestID string) (*dto.LeaveRequestResponse, error)
	ListByUser(ctx context.Context, userID string) ([]dto.LeaveRequestResponse, error)
	ListPending(ctx context.Context) ([]dto.LeaveRequestResponse, error)
	ListByStatus(ctx context.Context, status string) ([]dto.LeaveRequestResponse, error)
	ListApprovedInPeriod(ctx context.Context, start, end time.Time) ([]dto.LeaveRequestResponse, error)
}

type leaveService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, logger *zap.Logger) LeaveService {
	return &leaveService{repo: repo, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *leaveService) Submit(ctx context.Context, userID string, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error) {
	if !model.ValidLeaveTypes[req.LeaveType] {
		return nil, ErrLeaveBadType
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: 日期格式无效", pkgerrors.ErrInvalidArgument)
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: 日期格式无效", pkgerrors.ErrInvalidArgument)
	}

	if startDate.After(endDate) {
		return nil, ErrLeaveInvalidPeriod
	}
	if startDate.Before(today()) {
		return nil, ErrLeaveStartInPast
	}

	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	var request *model.LeaveRequest
	// 重叠检查与写入在同一事务内，数据库 EXCLUDE 约束兜底并发窗口
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		overlapping, err := tx.LeaveRequest.ListUserLeaveInPeriod(ctx, userID, startDate, endDate)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return ErrLeaveOverlap
		}

		request = &model.LeaveRequest{
			UserID:      userID,
			StartDate:   startDate,
			EndDate:     endDate,
			LeaveType:   req.LeaveType,
			Reason:      req.Reason,
			Status:      model.LeaveStatusPending,
			RequestedAt: time.Now(),
		}
		request.CreatedBy = &userID
		return tx.LeaveRequest.Create(ctx, request)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			return nil, err
		}
		s.logger.Error("提交请假申请失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假申请已提交",
		zap.String("request_id", request.RequestID),
		zap.String("user_id", userID),
		zap.String("leave_type", req.LeaveType))

	return toLeaveResponse(request), nil
}

// ────────────────────── Approve / Reject ──────────────────────

func (s *leaveService) Approve(ctx context.Context, requestID, reviewerID string, req *dto.ReviewLeaveRequest) (*dto.LeaveRequestResponse, error) {
	return s.review(ctx, requestID, reviewerID, model.LeaveActionApprove, req.Notes)
}

func (s *leaveService) Reject(ctx context.Context, requestID, reviewerID string, req *dto.ReviewLeaveRequest) (*dto.LeaveRequestResponse, error) {
	return s.review(ctx, requestID, reviewerID, model.LeaveActionReject, req.Notes)
}

func (s *leaveService) review(ctx context.Context, requestID, reviewerID, action, notes string) (*dto.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	next, ok := model.LeaveRequestFSM.Next(request.Status, action)
	if !ok {
		return nil, ErrLeaveNotPending
	}

	now := time.Now()
	request.Status = next
	request.ReviewedAt = &now
	request.ReviewedBy = &reviewerID
	request.ReviewNotes = notes
	request.UpdatedBy = &reviewerID

	if err := s.repo.LeaveRequest.Update(ctx, request); err != nil {
		s.logger.Error("审批请假申请失败", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假申请已审批",
		zap.String("request_id", requestID),
		zap.String("reviewer_id", reviewerID),
		zap.String("status", next))

	return toLeaveResponse(request), nil
}

// ────────────────────── Cancel ──────────────────────

func (s *leaveService) Cancel(ctx context.Context, requestID, callerID string) (*dto.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// 仅申请人本人可取消，且不记录审批人
	if request.UserID != callerID {
		return nil, ErrLeaveNotOwner
	}

	next, ok := model.LeaveRequestFSM.Next(request.Status, model.LeaveActionCancel)
	if !ok {
		return nil, ErrLeaveNotPending
	}

	request.Status = next
	request.UpdatedBy = &callerID

	if err := s.repo.LeaveRequest.Update(ctx, request); err != nil {
		s.logger.Error("取消请假申请失败", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}

	return toLeaveResponse(request), nil
}

// ────────────────────── 查询 ──────────────────────

// HasApprovedLeave 判断用户在区间内是否有已批准的请假（pending 不计）
func (s *leaveService) HasApprovedLeave(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	requests, err := s.repo.LeaveRequest.ListUserLeaveInPeriod(ctx, userID, start, end)
	if err != nil {
		return false, err
	}
	for i := range requests {
		if requests[i].Status == model.LeaveStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (s *leaveService) GetByID(ctx context.Context, requestID string) (*dto.LeaveRequestResponse, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return toLeaveResponse(request), nil
}

func (s *leaveService) ListByUser(ctx context.Context, userID string) ([]dto.LeaveRequestResponse, error) {
	requests, err := s.repo.LeaveRequest.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户请假申请失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(requests), nil
}

func (s *leaveService) ListPending(ctx context.Context) ([]dto.LeaveRequestResponse, error) {
	requests, err := s.repo.LeaveRequest.ListPending(ctx)
	if err != nil {
		s.logger.Error("查询待审批请假申请失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(requests), nil
}

func (s *leaveService) ListByStatus(ctx context.Context, status string) ([]dto.LeaveRequestResponse, error) {
	switch status {
	case model.LeaveStatusPending, model.LeaveStatusApproved,
		model.LeaveStatusRejected, model.LeaveStatusCancelled:
	default:
		return nil, ErrLeaveBadStatus
	}

	requests, err := s.repo.LeaveRequest.ListByStatus(ctx, status)
	if err != nil {
		s.logger.Error("按状态查询请假申请失败", zap.String("status", status), zap.Error(err))
		return nil, err
	}
	return s.toResponses(requests), nil
}

// ListApprovedInPeriod 列出与区间相交的全部已批准请假（不限用户）
func (s *leaveService) ListApprovedInPeriod(ctx context.Context, start, end time.Time) ([]dto.LeaveRequestResponse, error) {
	if start.After(end) {
		return nil, ErrLeaveInvalidPeriod
	}

	requests, err := s.repo.LeaveRequest.ListApprovedInPeriod(ctx, start, end)
	if err != nil {
		s.logger.Error("查询区间内已批准请假失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(requests), nil
}

// ── 内部辅助方法 ──

func (s *leaveService) getRequest(ctx context.Context, requestID string) (*model.LeaveRequest, error) {
	request, err := s.repo.LeaveRequest.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveRequestNotFound
		}
		s.logger.Error("查询请假申请失败", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}
	return request, nil
}

func (s *leaveService) toResponses(requests []model.LeaveRequest) []dto.LeaveRequestResponse {
	result := make([]dto.LeaveRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *toLeaveResponse(&requests[i]))
	}
	return result
}
