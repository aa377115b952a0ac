package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/repository"
	pkgerrors "github.com/Revaz-Goguadze/ShiftCraft/pkg/errors"
)

// ── 排班视图模块业务错误 ──

var ErrScheduleUserNotFound = fmt.Errorf("%w: 用户不存在", pkgerrors.ErrNotFound)

// ScheduleService 排班视图业务接口：只读聚合，不做任何变更
type ScheduleService interface {
	WeeklySchedule(ctx context.Context, dateInWeek time.Time) (*dto.WeeklyScheduleResponse, error)
	UserWeeklySchedule(ctx context.Context, userID string, dateInWeek time.Time) (*dto.UserWeeklyScheduleResponse, error)
	Conflicts(ctx context.Context, userID string, start, end time.Time) ([]dto.ConflictResponse, error)
	IsAvailable(ctx context.Context, userID string, date time.Time) (*dto.AvailabilityResponse, error)
	StaffAvailability(ctx context.Context, start, end time.Time) (map[string][]string, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

// ────────────────────── WeeklySchedule ──────────────────────

// WeeklySchedule 全员周视图：周一为一周起点，含已发布班次、生效分配及已批准请假
func (s *scheduleService) WeeklySchedule(ctx context.Context, dateInWeek time.Time) (*dto.WeeklyScheduleResponse, error) {
	start := weekStart(dateInWeek)
	end := start.AddDate(0, 0, 6)

	instances, err := s.repo.ShiftInstance.ListInRange(ctx, start, end, []string{model.ShiftStatusPublished})
	if err != nil {
		s.logger.Error("查询周内班次实例失败", zap.Error(err))
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListActiveInRange(ctx, start, end)
	if err != nil {
		s.logger.Error("查询周内排班分配失败", zap.Error(err))
		return nil, err
	}

	leave, err := s.repo.LeaveRequest.ListApprovedInPeriod(ctx, start, end)
	if err != nil {
		s.logger.Error("查询周内已批准请假失败", zap.Error(err))
		return nil, err
	}

	// 分配按实例分组
	byInstance := make(map[string][]model.Assignment)
	for _, a := range assignments {
		byInstance[a.InstanceID] = append(byInstance[a.InstanceID], a)
	}

	resp := &dto.WeeklyScheduleResponse{
		WeekStart: start.Format(dateLayout),
		WeekEnd:   end.Format(dateLayout),
		Leave:     []dto.LeaveRequestResponse{},
	}
	for i := range leave {
		resp.Leave = append(resp.Leave, *toLeaveResponse(&leave[i]))
	}
	for d := 0; d < 7; d++ {
		day := start.AddDate(0, 0, d)
		dayResp := dto.DayScheduleResponse{
			Date:   day.Format(dateLayout),
			Shifts: []dto.ShiftInstanceResponse{},
		}
		for i := range instances {
			if instances[i].ShiftDate.Equal(day) {
				dayResp.Shifts = append(dayResp.Shifts,
					*toInstanceResponse(&instances[i], byInstance[instances[i].InstanceID]))
			}
		}
		resp.Days = append(resp.Days, dayResp)
	}

	return resp, nil
}

// ────────────────────── UserWeeklySchedule ──────────────────────

func (s *scheduleService) UserWeeklySchedule(ctx context.Context, userID string, dateInWeek time.Time) (*dto.UserWeeklyScheduleResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	start := weekStart(dateInWeek)
	end := start.AddDate(0, 0, 6)

	assignments, err := s.repo.Assignment.ListByUserInRange(ctx, userID, start, end, nil)
	if err != nil {
		s.logger.Error("查询用户周内分配失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	leave, err := s.repo.LeaveRequest.ListUserLeaveInPeriod(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("查询用户周内请假失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.UserWeeklyScheduleResponse{
		User:        *toUserBrief(user),
		WeekStart:   start.Format(dateLayout),
		WeekEnd:     end.Format(dateLayout),
		Assignments: []dto.AssignmentResponse{},
		Leave:       []dto.LeaveRequestResponse{},
	}
	for i := range assignments {
		resp.Assignments = append(resp.Assignments, *toAssignmentResponse(&assignments[i]))
	}
	for i := range leave {
		resp.Leave = append(resp.Leave, *toLeaveResponse(&leave[i]))
	}
	return resp, nil
}

// ────────────────────── Conflicts ──────────────────────

// Conflicts 列出用户在区间内同日多于一条分配的日期（任意状态均计入）
func (s *scheduleService) Conflicts(ctx context.Context, userID string, start, end time.Time) ([]dto.ConflictResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByUserInRange(ctx, userID, start, end, nil)
	if err != nil {
		s.logger.Error("查询用户分配失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 按班次日期分组
	byDate := make(map[string][]model.Assignment)
	for _, a := range assignments {
		if a.Instance == nil {
			continue
		}
		key := a.Instance.ShiftDate.Format(dateLayout)
		byDate[key] = append(byDate[key], a)
	}

	dates := make([]string, 0, len(byDate))
	for date, group := range byDate {
		if len(group) > 1 {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	result := make([]dto.ConflictResponse, 0, len(dates))
	for _, date := range dates {
		conflict := dto.ConflictResponse{User: *toUserBrief(user), Date: date}
		for i := range byDate[date] {
			conflict.Assignments = append(conflict.Assignments, *toAssignmentResponse(&byDate[date][i]))
		}
		result = append(result, conflict)
	}
	return result, nil
}

// ────────────────────── IsAvailable ──────────────────────

// IsAvailable 按日粒度判断可用性：当日有生效分配或已批准请假即不可用，
// 不考虑班次时段是否实际重叠
func (s *scheduleService) IsAvailable(ctx context.Context, userID string, date time.Time) (*dto.AvailabilityResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	available, reason, err := s.checkAvailable(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	return &dto.AvailabilityResponse{
		User:      *toUserBrief(user),
		Date:      date.Format(dateLayout),
		Available: available,
		Reason:    reason,
	}, nil
}

// ────────────────────── StaffAvailability ──────────────────────

// StaffAvailability 对所有持 staff 角色的用户逐日求可用日期列表
func (s *scheduleService) StaffAvailability(ctx context.Context, start, end time.Time) (map[string][]string, error) {
	staff, err := s.repo.User.ListByRole(ctx, model.RoleStaff)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}

	result := make(map[string][]string, len(staff))
	for i := range staff {
		userID := staff[i].UserID
		available := []string{}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			ok, _, err := s.checkAvailable(ctx, userID, d)
			if err != nil {
				return nil, err
			}
			if ok {
				available = append(available, d.Format(dateLayout))
			}
		}
		result[userID] = available
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *scheduleService) checkAvailable(ctx context.Context, userID string, date time.Time) (bool, string, error) {
	assignments, err := s.repo.Assignment.ListByUserInRange(ctx, userID, date, date,
		[]string{model.AssignmentStatusActive})
	if err != nil {
		return false, "", err
	}
	if len(assignments) > 0 {
		return false, "already_assigned", nil
	}

	leave, err := s.repo.LeaveRequest.ListUserLeaveInPeriod(ctx, userID, date, date)
	if err != nil {
		return false, "", err
	}
	for i := range leave {
		if leave[i].Status == model.LeaveStatusApproved {
			return false, "on_leave", nil
		}
	}
	return true, "", nil
}

func (s *scheduleService) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}
