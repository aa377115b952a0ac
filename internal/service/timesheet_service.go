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

// ── 工时模块业务错误 ──

var (
	ErrTimesheetNotFound      = fmt.Errorf("%w: 工时表不存在", pkgerrors.ErrNotFound)
	ErrTimesheetUserNotFound  = fmt.Errorf("%w: 用户不存在", pkgerrors.ErrNotFound)
	ErrTimesheetInvalidPeriod = fmt.Errorf("%w: 周期起始日期不能晚于结束日期", pkgerrors.ErrInvalidArgument)
	ErrTimesheetExists        = fmt.Errorf("%w: 该用户在此周期已有工时表", pkgerrors.ErrConflict)
	ErrTimesheetNotDraft      = fmt.Errorf("%w: 仅草稿状态的工时表可执行该操作", pkgerrors.ErrInvalidState)
	ErrTimesheetNotSubmitted  = fmt.Errorf("%w: 仅已提交的工时表可审批", pkgerrors.ErrInvalidState)
	ErrTimesheetBadEntryType  = fmt.Errorf("%w: 无效的工时条目类型", pkgerrors.ErrInvalidArgument)
)

// TimesheetService 工时业务接口
type TimesheetService interface {
	Generate(ctx context.Context, req *dto.GenerateTimesheetRequest, callerID string) (*dto.TimesheetResponse, error)
	GenerateWeekly(ctx context.Context, userID string, dateInWeek time.Time, callerID string) (*dto.TimesheetResponse, error)
	AddManualEntry(ctx context.Context, timesheetID string, req *dto.AddTimesheetEntryRequest, callerID string) (*dto.TimesheetResponse, error)
	Submit(ctx context.Context, timesheetID, callerID string) (*dto.TimesheetResponse, error)
	Approve(ctx context.Context, timesheetID, approverID string, req *dto.ReviewTimesheetRequest) (*dto.TimesheetResponse, error)
	Reject(ctx context.Context, timesheetID, reviewerID string, req *dto.ReviewTimesheetRequest) (*dto.TimesheetResponse, error)
	GetByID(ctx context.Context, timesheetID string) (*dto.TimesheetResponse, error)
	GetByUserAndPeriod(ctx context.Context, userID string, periodStart, periodEnd time.Time) (*dto.TimesheetResponse, error)
	ListByUser(ctx context.Context, userID string) ([]dto.TimesheetResponse, error)
	ListByStatus(ctx context.Context, status string) ([]dto.TimesheetResponse, error)
}

type timesheetService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimesheetService 创建 TimesheetService 实例
func NewTimesheetService(repo *repository.Repository, logger *zap.Logger) TimesheetService {
	return &timesheetService{repo: repo, logger: logger}
}

// ────────────────────── Generate ──────────────────────

// Generate 按周期生成工时表：对区间内每条 active/completed 分配物化一条
// shift 条目，时刻与休息取自班次模板。整个过程在一个事务内，失败不留半成品。
func (s *timesheetService) Generate(ctx context.Context, req *dto.GenerateTimesheetRequest, callerID string) (*dto.TimesheetResponse, error) {
	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("%w: 日期格式无效", pkgerrors.ErrInvalidArgument)
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: 日期格式无效", pkgerrors.ErrInvalidArgument)
	}

	return s.generate(ctx, req.UserID, periodStart, periodEnd, callerID)
}

// GenerateWeekly 以给定日期所在的周（周一至周日）为周期生成工时表
func (s *timesheetService) GenerateWeekly(ctx context.Context, userID string, dateInWeek time.Time, callerID string) (*dto.TimesheetResponse, error) {
	start := weekStart(dateInWeek)
	return s.generate(ctx, userID, start, start.AddDate(0, 0, 6), callerID)
}

func (s *timesheetService) generate(ctx context.Context, userID string, periodStart, periodEnd time.Time, callerID string) (*dto.TimesheetResponse, error) {
	if periodStart.After(periodEnd) {
		return nil, ErrTimesheetInvalidPeriod
	}

	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimesheetUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	var timesheet *model.Timesheet
	err := s.repo.WithTx(func(tx *repository.Repository) error {
		_, err := tx.Timesheet.GetByUserAndPeriod(ctx, userID, periodStart, periodEnd)
		if err == nil {
			return ErrTimesheetExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		timesheet = &model.Timesheet{
			UserID:      userID,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Status:      model.TimesheetStatusDraft,
		}
		timesheet.CreatedBy = &callerID
		if err := tx.Timesheet.Create(ctx, timesheet); err != nil {
			return err
		}

		assignments, err := tx.Assignment.ListByUserInRange(ctx, userID, periodStart, periodEnd,
			[]string{model.AssignmentStatusActive, model.AssignmentStatusCompleted})
		if err != nil {
			return err
		}

		entries := make([]model.TimesheetEntry, 0, len(assignments))
		for i := range assignments {
			a := &assignments[i]
			if a.Instance == nil || a.Instance.Template == nil {
				continue
			}
			tpl := a.Instance.Template
			assignmentID := a.AssignmentID
			entry := model.TimesheetEntry{
				TimesheetID:  timesheet.TimesheetID,
				AssignmentID: &assignmentID,
				WorkDate:     a.Instance.ShiftDate,
				StartTime:    tpl.StartTime,
				EndTime:      tpl.EndTime,
				BreakMinutes: tpl.BreakMinutes,
				EntryType:    model.EntryTypeShift,
				Notes:        fmt.Sprintf("Shift: %s", tpl.Name),
			}
			entry.CalculateHours()
			entries = append(entries, entry)
		}

		if err := tx.TimesheetEntry.BatchCreate(ctx, entries); err != nil {
			return err
		}

		timesheet.Entries = entries
		timesheet.CalculateTotals()
		timesheet.UpdatedBy = &callerID
		return tx.Timesheet.Update(ctx, timesheet)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			return nil, err
		}
		s.logger.Error("生成工时表失败",
			zap.String("user_id", userID),
			zap.String("period_start", periodStart.Format(dateLayout)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("工时表已生成",
		zap.String("timesheet_id", timesheet.TimesheetID),
		zap.String("user_id", userID),
		zap.Int("entries", len(timesheet.Entries)),
		zap.String("total_hours", timesheet.TotalHours.StringFixed(2)))

	return s.GetByID(ctx, timesheet.TimesheetID)
}

// ────────────────────── AddManualEntry ──────────────────────

func (s *timesheetService) AddManualEntry(ctx context.Context, timesheetID string, req *dto.AddTimesheetEntryRequest, callerID string) (*dto.TimesheetResponse, error) {
	workDate, err := parseDate(req.WorkDate)
	if err != nil {
		return nil, fmt.Errorf("%w: 日期格式无效", pkgerrors.ErrInvalidArgument)
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = model.EntryTypeManualAdjustment
	}
	if !model.ValidEntryTypes[entryType] {
		return nil, ErrTimesheetBadEntryType
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		timesheet, err := tx.Timesheet.GetByID(ctx, timesheetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTimesheetNotFound
			}
			return err
		}

		// 仅草稿可追加条目
		if timesheet.Status != model.TimesheetStatusDraft {
			return ErrTimesheetNotDraft
		}

		entry := model.TimesheetEntry{
			TimesheetID:  timesheetID,
			WorkDate:     workDate,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			BreakMinutes: req.BreakMinutes,
			EntryType:    entryType,
			Notes:        req.Notes,
		}
		entry.CalculateHours()
		if err := tx.TimesheetEntry.Create(ctx, &entry); err != nil {
			return err
		}

		// 合计整体重算，不做增量
		entries, err := tx.TimesheetEntry.ListByTimesheet(ctx, timesheetID)
		if err != nil {
			return err
		}
		timesheet.Entries = entries
		timesheet.CalculateTotals()
		timesheet.UpdatedBy = &callerID
		return tx.Timesheet.Update(ctx, timesheet)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) || errors.Is(err, pkgerrors.ErrInvalidState) {
			return nil, err
		}
		s.logger.Error("追加工时条目失败", zap.String("timesheet_id", timesheetID), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, timesheetID)
}

// ────────────────────── Submit / Approve / Reject ──────────────────────

func (s *timesheetService) Submit(ctx context.Context, timesheetID, callerID string) (*dto.TimesheetResponse, error) {
	timesheet, err := s.getTimesheet(ctx, timesheetID)
	if err != nil {
		return nil, err
	}

	next, ok := model.TimesheetFSM.Next(timesheet.Status, model.TimesheetActionSubmit)
	if !ok {
		return nil, ErrTimesheetNotDraft
	}

	now := time.Now()
	timesheet.Status = next
	timesheet.SubmittedAt = &now
	timesheet.UpdatedBy = &callerID

	if err := s.repo.Timesheet.Update(ctx, timesheet); err != nil {
		s.logger.Error("提交工时表失败", zap.String("timesheet_id", timesheetID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("工时表已提交", zap.String("timesheet_id", timesheetID))
	return toTimesheetResponse(timesheet), nil
}

func (s *timesheetService) Approve(ctx context.Context, timesheetID, approverID string, req *dto.ReviewTimesheetRequest) (*dto.TimesheetResponse, error) {
	return s.review(ctx, timesheetID, approverID, model.TimesheetActionApprove, req.Notes)
}

func (s *timesheetService) Reject(ctx context.Context, timesheetID, reviewerID string, req *dto.ReviewTimesheetRequest) (*dto.TimesheetResponse, error) {
	return s.review(ctx, timesheetID, reviewerID, model.TimesheetActionReject, req.Notes)
}

func (s *timesheetService) review(ctx context.Context, timesheetID, reviewerID, action, notes string) (*dto.TimesheetResponse, error) {
	timesheet, err := s.getTimesheet(ctx, timesheetID)
	if err != nil {
		return nil, err
	}

	next, ok := model.TimesheetFSM.Next(timesheet.Status, action)
	if !ok {
		return nil, ErrTimesheetNotSubmitted
	}

	now := time.Now()
	timesheet.Status = next
	timesheet.ApprovedAt = &now
	timesheet.ApprovedBy = &reviewerID
	timesheet.ReviewNotes = notes
	timesheet.UpdatedBy = &reviewerID

	if err := s.repo.Timesheet.Update(ctx, timesheet); err != nil {
		s.logger.Error("审批工时表失败", zap.String("timesheet_id", timesheetID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("工时表已审批",
		zap.String("timesheet_id", timesheetID),
		zap.String("reviewer_id", reviewerID),
		zap.String("status", next))

	return toTimesheetResponse(timesheet), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *timesheetService) GetByID(ctx context.Context, timesheetID string) (*dto.TimesheetResponse, error) {
	timesheet, err := s.getTimesheet(ctx, timesheetID)
	if err != nil {
		return nil, err
	}
	return toTimesheetResponse(timesheet), nil
}

func (s *timesheetService) GetByUserAndPeriod(ctx context.Context, userID string, periodStart, periodEnd time.Time) (*dto.TimesheetResponse, error) {
	timesheet, err := s.repo.Timesheet.GetByUserAndPeriod(ctx, userID, periodStart, periodEnd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimesheetNotFound
		}
		s.logger.Error("查询工时表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toTimesheetResponse(timesheet), nil
}

func (s *timesheetService) ListByUser(ctx context.Context, userID string) ([]dto.TimesheetResponse, error) {
	timesheets, err := s.repo.Timesheet.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户工时表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(timesheets), nil
}

func (s *timesheetService) ListByStatus(ctx context.Context, status string) ([]dto.TimesheetResponse, error) {
	timesheets, err := s.repo.Timesheet.ListByStatus(ctx, status)
	if err != nil {
		s.logger.Error("按状态查询工时表失败", zap.String("status", status), zap.Error(err))
		return nil, err
	}
	return s.toResponses(timesheets), nil
}

// ── 内部辅助方法 ──

func (s *timesheetService) getTimesheet(ctx context.Context, timesheetID string) (*model.Timesheet, error) {
	timesheet, err := s.repo.Timesheet.GetByID(ctx, timesheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimesheetNotFound
		}
		s.logger.Error("查询工时表失败", zap.String("timesheet_id", timesheetID), zap.Error(err))
		return nil, err
	}
	return timesheet, nil
}

func (s *timesheetService) toResponses(timesheets []model.Timesheet) []dto.TimesheetResponse {
	result := make([]dto.TimesheetResponse, 0, len(timesheets))
	for i := range timesheets {
		result = append(result, *toTimesheetResponse(&timesheets[i]))
	}
	return result
}
