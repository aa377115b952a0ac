package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Revaz-Goguadze/ShiftCraft/config"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/api/handler"
	"github.com/Revaz-Goguadze/ShiftCraft/internal/api/middleware"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/jwt"
	"github.com/Revaz-Goguadze/ShiftCraft/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("admin", "manager"), h.User.List)
				users.GET("/:id", middleware.RoleAuth("admin", "manager"), h.User.Get)
				users.POST("", middleware.RoleAuth("admin"), h.User.Create)
				users.PUT("/:id", middleware.RoleAuth("admin"), h.User.Update)
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.Delete)
				users.POST("/:id/skills", middleware.RoleAuth("admin", "manager"), h.User.AssignSkill)
			}

			// 技能 / 角色目录
			authorized.GET("/skills", h.User.ListSkills)
			authorized.POST("/skills", middleware.RoleAuth("admin", "manager"), h.User.CreateSkill)
			authorized.GET("/roles", h.User.ListRoles)

			// 工作地点模块
			locations := authorized.Group("/locations")
			{
				locations.GET("", h.Shift.ListLocations)
				locations.POST("", middleware.RoleAuth("admin", "manager"), h.Shift.CreateLocation)
			}

			// 班次模板模块
			templates := authorized.Group("/shift-templates")
			{
				templates.GET("", h.Shift.ListTemplates)
				templates.GET("/:id", h.Shift.GetTemplate)
				templates.POST("", middleware.RoleAuth("admin", "manager"), h.Shift.CreateTemplate)
				templates.PUT("/:id", middleware.RoleAuth("admin", "manager"), h.Shift.UpdateTemplate)
				templates.DELETE("/:id", middleware.RoleAuth("admin", "manager"), h.Shift.DeactivateTemplate)
			}

			// 班次实例模块
			instances := authorized.Group("/shift-instances")
			{
				instances.GET("", h.Shift.ListInstances)
				instances.GET("/:id", h.Shift.GetInstance)
				instances.POST("", middleware.RoleAuth("admin", "manager"), h.Shift.CreateInstance)
				instances.POST("/:id/publish", middleware.RoleAuth("admin", "manager"), h.Shift.PublishInstance)
				instances.POST("/:id/cancel", middleware.RoleAuth("admin", "manager"), h.Shift.CancelInstance)
				instances.POST("/:id/assignments", middleware.RoleAuth("admin", "manager"), h.Shift.Assign)
			}

			// 排班分配模块
			assignments := authorized.Group("/assignments")
			{
				assignments.POST("/:id/cancel", middleware.RoleAuth("admin", "manager"), h.Shift.CancelAssignment)
				assignments.POST("/:id/complete", middleware.RoleAuth("admin", "manager"), h.Shift.CompleteAssignment)
			}

			// 请假模块
			leaves := authorized.Group("/leave-requests")
			{
				leaves.POST("", h.Leave.Submit)
				leaves.GET("", middleware.RoleAuth("admin", "manager"), h.Leave.ListByStatus)
				leaves.GET("/my", h.Leave.ListMy)
				leaves.GET("/approved", middleware.RoleAuth("admin", "manager"), h.Leave.ListApproved)
				leaves.GET("/pending", middleware.RoleAuth("admin", "manager"), h.Leave.ListPending)
				leaves.GET("/:id", h.Leave.Get)
				leaves.POST("/:id/approve", middleware.RoleAuth("admin", "manager"), h.Leave.Approve)
				leaves.POST("/:id/reject", middleware.RoleAuth("admin", "manager"), h.Leave.Reject)
				leaves.POST("/:id/cancel", h.Leave.Cancel)
			}

			// 排班视图模块
			schedule := authorized.Group("/schedule")
			{
				schedule.GET("/weekly", h.Schedule.Weekly)
				schedule.GET("/my", h.Schedule.MyWeekly)
				schedule.GET("/users/:id", middleware.RoleAuth("admin", "manager"), h.Schedule.UserWeekly)
				schedule.GET("/users/:id/conflicts", middleware.RoleAuth("admin", "manager"), h.Schedule.Conflicts)
				schedule.GET("/users/:id/availability", middleware.RoleAuth("admin", "manager"), h.Schedule.Availability)
				schedule.GET("/availability", middleware.RoleAuth("admin", "manager"), h.Schedule.StaffAvailability)
			}

			// 工时模块
			timesheets := authorized.Group("/timesheets")
			{
				timesheets.GET("", middleware.RoleAuth("admin", "manager"), h.Timesheet.ListByStatus)
				timesheets.GET("/my", h.Timesheet.ListMy)
				timesheets.GET("/users/:id", middleware.RoleAuth("admin", "manager"), h.Timesheet.ListByUser)
				timesheets.GET("/:id", h.Timesheet.Get)
				timesheets.POST("/generate", middleware.RoleAuth("admin", "manager"), h.Timesheet.Generate)
				timesheets.POST("/generate-weekly", h.Timesheet.GenerateWeekly)
				timesheets.POST("/:id/entries", h.Timesheet.AddEntry)
				timesheets.POST("/:id/submit", h.Timesheet.Submit)
				timesheets.POST("/:id/approve", middleware.RoleAuth("admin", "manager"), h.Timesheet.Approve)
				timesheets.POST("/:id/reject", middleware.RoleAuth("admin", "manager"), h.Timesheet.Reject)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/schedule", middleware.RoleAuth("admin", "manager"), h.Export.ExportWeeklySchedule)
			}
		}
	}

	return r
}
