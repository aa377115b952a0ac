package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/repository"
	pkgerrors "github.com/Revaz-Goguadze/ShiftCraft/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound    = fmt.Errorf("%w: 用户不存在", pkgerrors.ErrNotFound)
	ErrUserEmailExists = fmt.Errorf("%w: 邮箱已被注册", pkgerrors.ErrConflict)
	ErrUserRoleUnknown = fmt.Errorf("%w: 角色不存在", pkgerrors.ErrNotFound)
	ErrSkillNotFound   = fmt.Errorf("%w: 技能不存在", pkgerrors.ErrNotFound)
	ErrUserSelfDelete  = fmt.Errorf("%w: 不能删除自己", pkgerrors.ErrInvalidState)
)

// UserService 用户与技能目录业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error)
	GetByID(ctx context.Context, userID string) (*dto.UserResponse, error)
	List(ctx context.Context, status string) ([]dto.UserResponse, error)
	Update(ctx context.Context, userID string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, userID, callerID string) error
	AssignSkill(ctx context.Context, userID string, req *dto.AssignSkillRequest, callerID string) (*dto.UserResponse, error)

	CreateSkill(ctx context.Context, req *dto.CreateSkillRequest, callerID string) (*dto.SkillBrief, error)
	ListSkills(ctx context.Context) ([]dto.SkillBrief, error)
	ListRoles(ctx context.Context) ([]dto.RoleBrief, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*dto.UserResponse, error) {
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrUserEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户邮箱失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	roles, err := s.resolveRoles(ctx, req.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码加密失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Status:       model.UserStatusActive,
		Roles:        roles,
	}
	user.CreatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户已创建",
		zap.String("user_id", user.UserID),
		zap.String("email", user.Email))

	return toUserResponse(user), nil
}

// ────────────────────── 查询 ──────────────────────

func (s *userService) GetByID(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, status string) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx, status)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *userService) Update(ctx context.Context, userID string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if req.Roles != nil {
		roles, err := s.resolveRoles(ctx, req.Roles)
		if err != nil {
			return nil, err
		}
		if err := s.repo.User.ReplaceRoles(ctx, user, roles); err != nil {
			s.logger.Error("更新用户角色失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
	}

	return s.GetByID(ctx, userID)
}

// Delete 软删除用户。分配与请假记录显式保留，不做级联处理。
func (s *userService) Delete(ctx context.Context, userID, callerID string) error {
	if userID == callerID {
		return ErrUserSelfDelete
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, userID, callerID); err != nil {
		s.logger.Error("删除用户失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("用户已删除", zap.String("user_id", userID), zap.String("deleted_by", callerID))
	return nil
}

// ────────────────────── 技能 / 角色 ──────────────────────

func (s *userService) AssignSkill(ctx context.Context, userID string, req *dto.AssignSkillRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Skill.GetByID(ctx, req.SkillID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}

	level := req.Level
	if level <= 0 {
		level = 1
	}

	// 同一技能重复绑定按更新等级处理
	if err := s.repo.User.UpsertSkill(ctx, &model.UserSkill{
		UserID:  user.UserID,
		SkillID: req.SkillID,
		Level:   level,
	}); err != nil {
		s.logger.Error("绑定用户技能失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, userID)
}

func (s *userService) CreateSkill(ctx context.Context, req *dto.CreateSkillRequest, callerID string) (*dto.SkillBrief, error) {
	skill := &model.Skill{Name: req.Name, Category: req.Category}
	skill.CreatedBy = &callerID

	if err := s.repo.Skill.Create(ctx, skill); err != nil {
		s.logger.Error("创建技能失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	return &dto.SkillBrief{ID: skill.SkillID, Name: skill.Name, Category: skill.Category}, nil
}

func (s *userService) ListSkills(ctx context.Context) ([]dto.SkillBrief, error) {
	skills, err := s.repo.Skill.List(ctx)
	if err != nil {
		s.logger.Error("查询技能列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SkillBrief, 0, len(skills))
	for i := range skills {
		result = append(result, dto.SkillBrief{
			ID:       skills[i].SkillID,
			Name:     skills[i].Name,
			Category: skills[i].Category,
		})
	}
	return result, nil
}

func (s *userService) ListRoles(ctx context.Context) ([]dto.RoleBrief, error) {
	roles, err := s.repo.Role.List(ctx)
	if err != nil {
		s.logger.Error("查询角色列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoleBrief, 0, len(roles))
	for i := range roles {
		result = append(result, dto.RoleBrief{ID: roles[i].RoleID, Name: roles[i].Name})
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *userService) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) resolveRoles(ctx context.Context, names []string) ([]model.Role, error) {
	if len(names) == 0 {
		names = []string{model.RoleStaff}
	}
	roles := make([]model.Role, 0, len(names))
	for _, name := range names {
		role, err := s.repo.Role.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserRoleUnknown
			}
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, nil
}
