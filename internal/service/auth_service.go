package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Revaz-Goguadze/ShiftCraft/internal/dto"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/model"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/repository"
	pkgerrors "github.com/Revaz-Goguadze/ShiftCraft/pkg/errors"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/jwt"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrAuthInvalidCredentials = errors.New("邮箱或密码错误")
	ErrAuthUserDisabled       = errors.New("账号已停用")
	ErrAuthWrongOldPassword   = fmt.Errorf("%w: 原密码错误", pkgerrors.ErrInvalidArgument)
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo       *repository.Repository
	jwtManager *jwt.Manager
	redis      *redis.Client
	accessTTL  time.Duration
	logger     *zap.Logger
}

// NewAuthService 创建 AuthService 实例；redis 可为 nil（降级运行，登出不可用）
func NewAuthService(repo *repository.Repository, jwtManager *jwt.Manager, redisClient *redis.Client, accessTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		repo:       repo,
		jwtManager: jwtManager,
		redis:      redisClient,
		accessTTL:  accessTTL,
		logger:     logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户不存在与密码错误返回同一错误，避免探测有效邮箱
			return nil, ErrAuthInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrAuthInvalidCredentials
	}

	if user.Status != model.UserStatusActive {
		return nil, ErrAuthUserDisabled
	}

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, r.Name)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.UserID, roles)
	if err != nil {
		s.logger.Error("生成 Access Token 失败", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录成功",
		zap.String("user_id", user.UserID),
		zap.String("email", user.Email))

	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.accessTTL.Seconds()),
		User:        *toUserResponse(user),
	}, nil
}

// ────────────────────── Logout ──────────────────────

// Logout 将当前 Token 的 JTI 加入黑名单；Redis 不可用时仅记录日志
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.redis == nil {
		s.logger.Warn("Redis 不可用，登出仅客户端生效", zap.String("jti", jti))
		return nil
	}

	ttl := time.Until(expiresAt)
	if err := s.redis.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrAuthWrongOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码加密失败", zap.Error(err))
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedBy = &userID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("修改密码失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("密码已修改", zap.String("user_id", userID))
	return nil
}
