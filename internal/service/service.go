package service

import (
	"go.uber.org/zap"

	"github.com/Revaz-Goguadze/ShiftCraft/config"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/repository"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/jwt"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	User      UserService
	Leave     LeaveService
	Shift     ShiftService
	Schedule  ScheduleService
	Timesheet TimesheetService
	Export    ExportService
}

// NewService 创建 Service 聚合；redisClient 可为 nil（降级运行）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(repo, jwtMgr, redisClient, cfg.Auth.AccessTokenTTL, logger),
		User:      NewUserService(repo, logger),
		Leave:     NewLeaveService(repo, logger),
		Shift:     NewShiftService(repo, logger),
		Schedule:  NewScheduleService(repo, logger),
		Timesheet: NewTimesheetService(repo, logger),
		Export:    NewExportService(repo, logger),
	}
}
