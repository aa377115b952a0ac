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

// ── 班次模块业务错误 ──

var (
	ErrShiftTemplateNotFound  = fmt.Errorf("%w: 班次模板不存在", pkgerrors.ErrNotFound)
	ErrShiftLocationNotFound  = fmt.Errorf("%w: 工作地点不存在", pkgerrors.ErrNotFound)
	ErrShiftRoleNotFound      = fmt.Errorf("%w: 角色不存在", pkgerrors.ErrNotFound)
	ErrShiftSkillNotFound     = fmt.Errorf("%w: 技能不存在", pkgerrors.ErrNotFound)
	ErrShiftInstanceNotFound  = fmt.Errorf("%w: 班次实例不存在", pkgerrors.ErrNotFound)
	ErrShiftUserNotFound      = fmt.Errorf("%w: 用户不存在", pkgerrors.ErrNotFound)
	ErrAssignmentNotFound     = fmt.Errorf("%w: 排班分配不存在", pkgerrors.ErrNotFound)
	ErrShiftInstanceExists    = fmt.Errorf("%w: 该模板在此日期已有班次实例", pkgerrors.ErrConflict)
	ErrAssignmentExists       = fmt.Errorf("%w: 该用户在此班次已有生效分配", pkgerrors.ErrConflict)
	ErrShiftInstanceFull      = fmt.Errorf("%w: 班次分配人数已达上限", pkgerrors.ErrConflict)
	ErrShiftNotDraft          = fmt.Errorf("%w: 已发布的班次不可再分配", pkgerrors.ErrInvalidState)
	ErrShiftBadTransition     = fmt.Errorf("%w: 班次当前状态不允许该转换", pkgerrors.ErrInvalidState)
	ErrAssignmentNotActive    = fmt.Errorf("%w: 仅生效中的分配可执行该操作", pkgerrors.ErrInvalidState)
	ErrShiftTemplateNotActive = fmt.Errorf("%w: 班次模板已停用", pkgerrors.ErrInvalidState)
)

// ShiftService 班次与排班分配业务接口
type ShiftService interface {
	// 地点目录
	CreateLocation(ctx context.Context, req *dto.CreateLocationRequest, callerID string) (*dto.LocationResponse, error)
	ListLocations(ctx context.Context) ([]dto.LocationResponse, error)

	// 班次模板
	CreateTemplate(ctx context.Context, req *dto.CreateShiftTemplateRequest, callerID string) (*dto.ShiftTemplateResponse, error)
	UpdateTemplate(ctx context.Context, templateID string, req *dto.UpdateShiftTemplateRequest, callerID string) (*dto.ShiftTemplateResponse, error)
	GetTemplate(ctx context.Context, templateID string) (*dto.ShiftTemplateResponse, error)
	ListTemplates(ctx context.Context, includeInactive bool) ([]dto.ShiftTemplateResponse, error)
	ListTemplatesByLocation(ctx context.Context, locationID string) ([]dto.ShiftTemplateResponse, error)
	DeactivateTemplate(ctx context.Context, templateID, callerID string) error

	// 班次实例
	CreateInstance(ctx context.Context, req *dto.CreateShiftInstanceRequest, callerID string) (*dto.ShiftInstanceResponse, error)
	GetInstance(ctx context.Context, instanceID string) (*dto.ShiftInstanceResponse, error)
	PublishInstance(ctx context.Context, instanceID, publisherID string) (*dto.ShiftInstanceResponse, error)
	CancelInstance(ctx context.Context, instanceID, callerID string) (*dto.ShiftInstanceResponse, error)
	ListInstancesInRange(ctx context.Context, start, end time.Time, publishedOnly bool) ([]dto.ShiftInstanceResponse, error)

	// 排班分配
	Assign(ctx context.Context, instanceID string, req *dto.AssignUserRequest, assignerID string) (*dto.AssignmentResponse, error)
	CancelAssignment(ctx context.Context, assignmentID string, req *dto.CancelAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	CompleteAssignment(ctx context.Context, assignmentID, callerID string) (*dto.AssignmentResponse, error)
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

// ────────────────────── 地点目录 ──────────────────────

func (s *shiftService) CreateLocation(ctx context.Context, req *dto.CreateLocationRequest, callerID string) (*dto.LocationResponse, error) {
	loc := &model.Location{Name: req.Name, Address: req.Address}
	loc.CreatedBy = &callerID

	if err := s.repo.Location.Create(ctx, loc); err != nil {
		s.logger.Error("创建工作地点失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	return &dto.LocationResponse{ID: loc.LocationID, Name: loc.Name, Address: loc.Address}, nil
}

func (s *shiftService) ListLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	locations, err := s.repo.Location.List(ctx)
	if err != nil {
		s.logger.Error("查询工作地点失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		result = append(result, dto.LocationResponse{
			ID:      locations[i].LocationID,
			Name:    locations[i].Name,
			Address: locations[i].Address,
		})
	}
	return result, nil
}

// ────────────────────── 班次模板 ──────────────────────

func (s *shiftService) CreateTemplate(ctx context.Context, req *dto.CreateShiftTemplateRequest, callerID string) (*dto.ShiftTemplateResponse, error) {
	if _, err := s.repo.Location.GetByID(ctx, req.LocationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftLocationNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Role.GetByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftRoleNotFound
		}
		return nil, err
	}

	skills, err := s.resolveSkills(ctx, req.RequiredSkillIDs)
	if err != nil {
		return nil, err
	}

	maxAssignments := req.MaxAssignments
	if maxAssignments <= 0 {
		maxAssignments = 1
	}

	tpl := &model.ShiftTemplate{
		Name:           req.Name,
		LocationID:     req.LocationID,
		RoleID:         req.RoleID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BreakMinutes:   req.BreakMinutes,
		Description:    req.Description,
		MaxAssignments: maxAssignments,
		IsActive:       true,
		RequiredSkills: skills,
	}
	tpl.CreatedBy = &callerID

	if err := s.repo.ShiftTemplate.Create(ctx, tpl); err != nil {
		s.logger.Error("创建班次模板失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("班次模板已创建",
		zap.String("template_id", tpl.TemplateID),
		zap.String("name", tpl.Name))

	return s.GetTemplate(ctx, tpl.TemplateID)
}

func (s *shiftService) UpdateTemplate(ctx context.Context, templateID string, req *dto.UpdateShiftTemplateRequest, callerID string) (*dto.ShiftTemplateResponse, error) {
	tpl, err := s.getTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if req.LocationID != nil {
		if _, err := s.repo.Location.GetByID(ctx, *req.LocationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrShiftLocationNotFound
			}
			return nil, err
		}
		tpl.LocationID = *req.LocationID
	}
	if req.RoleID != nil {
		if _, err := s.repo.Role.GetByID(ctx, *req.RoleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrShiftRoleNotFound
			}
			return nil, err
		}
		tpl.RoleID = *req.RoleID
	}
	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.StartTime != nil {
		tpl.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		tpl.EndTime = *req.EndTime
	}
	if req.BreakMinutes != nil {
		tpl.BreakMinutes = *req.BreakMinutes
	}
	if req.Description != nil {
		tpl.Description = *req.Description
	}
	if req.MaxAssignments != nil {
		tpl.MaxAssignments = *req.MaxAssignments
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	tpl.UpdatedBy = &callerID

	if err := s.repo.ShiftTemplate.Update(ctx, tpl); err != nil {
		s.logger.Error("更新班次模板失败", zap.String("template_id", templateID), zap.Error(err))
		return nil, err
	}

	if req.RequiredSkillIDs != nil {
		skills, err := s.resolveSkills(ctx, req.RequiredSkillIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ShiftTemplate.ReplaceRequiredSkills(ctx, tpl, skills); err != nil {
			s.logger.Error("更新模板技能要求失败", zap.String("template_id", templateID), zap.Error(err))
			return nil, err
		}
	}

	return s.GetTemplate(ctx, templateID)
}

func (s *shiftService) GetTemplate(ctx context.Context, templateID string) (*dto.ShiftTemplateResponse, error) {
	tpl, err := s.getTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return toTemplateResponse(tpl), nil
}

func (s *shiftService) ListTemplates(ctx context.Context, includeInactive bool) ([]dto.ShiftTemplateResponse, error) {
	templates, err := s.repo.ShiftTemplate.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("查询班次模板失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ShiftTemplateResponse, 0, len(templates))
	for i := range templates {
		result = append(result, *toTemplateResponse(&templates[i]))
	}
	return result, nil
}

func (s *shiftService) ListTemplatesByLocation(ctx context.Context, locationID string) ([]dto.ShiftTemplateResponse, error) {
	if _, err := s.repo.Location.GetByID(ctx, locationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftLocationNotFound
		}
		s.logger.Error("查询工作地点失败", zap.String("location_id", locationID), zap.Error(err))
		return nil, err
	}

	templates, err := s.repo.ShiftTemplate.ListByLocation(ctx, locationID)
	if err != nil {
		s.logger.Error("按地点查询班次模板失败", zap.String("location_id", locationID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ShiftTemplateResponse, 0, len(templates))
	for i := range templates {
		result = append(result, *toTemplateResponse(&templates[i]))
	}
	return result, nil
}

func (s *shiftService) DeactivateTemplate(ctx context.Context, templateID, callerID string) error {
	if _, err := s.getTemplate(ctx, templateID); err != nil {
		return err
	}

	if err := s.repo.ShiftTemplate.Deactivate(ctx, templateID, callerID); err != nil {
		s.logger.Error("停用班次模板失败", zap.String("template_id", templateID), zap.Error(err))
		return err
	}

	s.logger.Info("班次模板已停用", zap.String("template_id", templateID))
	return nil
}

// ────────────────────── 班次实例 ──────────────────────

func (s *shiftService) CreateInstance(ctx context.Context, req *dto.CreateShiftInstanceRequest, callerID string) (*dto.ShiftInstanceResponse, error) {
	shiftDate, err := parseDate(req.ShiftDate)
	if err != nil {
		return nil, fmt.Errorf("%w: 日期格式无效", pkgerrors.ErrInvalidArgument)
	}

	tpl, err := s.getTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, ErrShiftTemplateNotActive
	}

	var inst *model.ShiftInstance
	// 唯一性检查与写入在同一事务内，(template, date) 唯一约束兜底
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		_, err := tx.ShiftInstance.GetByTemplateAndDate(ctx, req.TemplateID, shiftDate)
		if err == nil {
			return ErrShiftInstanceExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		inst = &model.ShiftInstance{
			TemplateID: req.TemplateID,
			ShiftDate:  shiftDate,
			Status:     model.ShiftStatusDraft,
		}
		inst.CreatedBy = &callerID
		return tx.ShiftInstance.Create(ctx, inst)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			return nil, err
		}
		s.logger.Error("创建班次实例失败",
			zap.String("template_id", req.TemplateID),
			zap.String("shift_date", req.ShiftDate),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("班次实例已创建",
		zap.String("instance_id", inst.InstanceID),
		zap.String("template_id", req.TemplateID),
		zap.String("shift_date", req.ShiftDate))

	return s.GetInstance(ctx, inst.InstanceID)
}

func (s *shiftService) GetInstance(ctx context.Context, instanceID string) (*dto.ShiftInstanceResponse, error) {
	inst, err := s.getInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByInstance(ctx, instanceID, false)
	if err != nil {
		s.logger.Error("查询班次分配失败", zap.String("instance_id", instanceID), zap.Error(err))
		return nil, err
	}

	return toInstanceResponse(inst, assignments), nil
}

func (s *shiftService) PublishInstance(ctx context.Context, instanceID, publisherID string) (*dto.ShiftInstanceResponse, error) {
	return s.transitionInstance(ctx, instanceID, publisherID, model.ShiftActionPublish)
}

func (s *shiftService) CancelInstance(ctx context.Context, instanceID, callerID string) (*dto.ShiftInstanceResponse, error) {
	return s.transitionInstance(ctx, instanceID, callerID, model.ShiftActionCancel)
}

func (s *shiftService) transitionInstance(ctx context.Context, instanceID, callerID, action string) (*dto.ShiftInstanceResponse, error) {
	inst, err := s.getInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	next, ok := model.ShiftInstanceFSM.Next(inst.Status, action)
	if !ok {
		return nil, ErrShiftBadTransition
	}

	inst.Status = next
	if action == model.ShiftActionPublish {
		now := time.Now()
		inst.PublishedAt = &now
		inst.PublishedBy = &callerID
	}
	inst.UpdatedBy = &callerID

	if err := s.repo.ShiftInstance.Update(ctx, inst); err != nil {
		s.logger.Error("更新班次实例状态失败", zap.String("instance_id", instanceID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("班次实例状态已变更",
		zap.String("instance_id", instanceID),
		zap.String("status", next))

	return s.GetInstance(ctx, instanceID)
}

func (s *shiftService) ListInstancesInRange(ctx context.Context, start, end time.Time, publishedOnly bool) ([]dto.ShiftInstanceResponse, error) {
	var statuses []string
	if publishedOnly {
		statuses = []string{model.ShiftStatusPublished}
	}

	instances, err := s.repo.ShiftInstance.ListInRange(ctx, start, end, statuses)
	if err != nil {
		s.logger.Error("查询班次实例失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ShiftInstanceResponse, 0, len(instances))
	for i := range instances {
		result = append(result, *toInstanceResponse(&instances[i], nil))
	}
	return result, nil
}

// ────────────────────── 排班分配 ──────────────────────

func (s *shiftService) Assign(ctx context.Context, instanceID string, req *dto.AssignUserRequest, assignerID string) (*dto.AssignmentResponse, error) {
	inst, err := s.getInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	// 发布后不可再分配
	if inst.Status != model.ShiftStatusDraft {
		return nil, ErrShiftNotDraft
	}

	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftUserNotFound
		}
		return nil, err
	}

	maxAssignments := 1
	if inst.Template != nil {
		maxAssignments = inst.Template.MaxAssignments
	}

	var assignment *model.Assignment
	// 双重分配检查与写入在同一事务内，部分唯一索引兜底
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		existing, err := tx.Assignment.ListByInstance(ctx, instanceID, true)
		if err != nil {
			return err
		}
		for i := range existing {
			if existing[i].UserID == req.UserID {
				return ErrAssignmentExists
			}
		}
		count, err := tx.Assignment.CountActiveByInstance(ctx, instanceID)
		if err != nil {
			return err
		}
		if count >= int64(maxAssignments) {
			return ErrShiftInstanceFull
		}

		assignment = &model.Assignment{
			InstanceID: instanceID,
			UserID:     req.UserID,
			Status:     model.AssignmentStatusActive,
			AssignedBy: assignerID,
			AssignedAt: time.Now(),
			Notes:      req.Notes,
		}
		assignment.CreatedBy = &assignerID
		return tx.Assignment.Create(ctx, assignment)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrConflict) {
			return nil, err
		}
		s.logger.Error("创建排班分配失败",
			zap.String("instance_id", instanceID),
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("排班分配已创建",
		zap.String("assignment_id", assignment.AssignmentID),
		zap.String("instance_id", instanceID),
		zap.String("user_id", req.UserID))

	return toAssignmentResponse(assignment), nil
}

func (s *shiftService) CancelAssignment(ctx context.Context, assignmentID string, req *dto.CancelAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	next, ok := model.AssignmentFSM.Next(assignment.Status, model.AssignmentActionCancel)
	if !ok {
		return nil, ErrAssignmentNotActive
	}

	now := time.Now()
	assignment.Status = next
	assignment.CancelledAt = &now
	if req.Notes != "" {
		assignment.Notes = req.Notes
	}
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("取消排班分配失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("排班分配已取消", zap.String("assignment_id", assignmentID))
	return toAssignmentResponse(assignment), nil
}

func (s *shiftService) CompleteAssignment(ctx context.Context, assignmentID, callerID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	next, ok := model.AssignmentFSM.Next(assignment.Status, model.AssignmentActionComplete)
	if !ok {
		return nil, ErrAssignmentNotActive
	}

	assignment.Status = next
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("完成排班分配失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}

	return toAssignmentResponse(assignment), nil
}

// ── 内部辅助方法 ──

func (s *shiftService) getTemplate(ctx context.Context, templateID string) (*model.ShiftTemplate, error) {
	tpl, err := s.repo.ShiftTemplate.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftTemplateNotFound
		}
		s.logger.Error("查询班次模板失败", zap.String("template_id", templateID), zap.Error(err))
		return nil, err
	}
	return tpl, nil
}

func (s *shiftService) getInstance(ctx context.Context, instanceID string) (*model.ShiftInstance, error) {
	inst, err := s.repo.ShiftInstance.GetByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftInstanceNotFound
		}
		s.logger.Error("查询班次实例失败", zap.String("instance_id", instanceID), zap.Error(err))
		return nil, err
	}
	return inst, nil
}

func (s *shiftService) getAssignment(ctx context.Context, assignmentID string) (*model.Assignment, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询排班分配失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}
	return assignment, nil
}

func (s *shiftService) resolveSkills(ctx context.Context, skillIDs []string) ([]model.Skill, error) {
	if len(skillIDs) == 0 {
		return nil, nil
	}
	skills, err := s.repo.Skill.GetByIDs(ctx, skillIDs)
	if err != nil {
		return nil, err
	}
	if len(skills) != len(skillIDs) {
		return nil, ErrShiftSkillNotFound
	}
	return skills, nil
}
