package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/yerasnetwork/course-registration/config"
	"github.com/yerasnetwork/course-registration/internal/repository"
	"github.com/yerasnetwork/course-registration/pkg/jwt"
	"github.com/yerasnetwork/course-registration/pkg/redis"
)

// Clock 可注入时间源；测试中替换为固定时间以保证星期/时刻判定可复现
type Clock func() time.Time

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Course     CourseService
	Teacher    TeacherService
	Enrollment EnrollmentService
	Export     ExportService
	Chat       ChatService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	clock := Clock(time.Now)
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Course:     NewCourseService(repo, logger),
		Teacher:    NewTeacherService(repo, logger),
		Enrollment: NewEnrollmentService(repo, clock, logger),
		Export:     NewExportService(repo, clock, logger),
		Chat:       NewChatService(&cfg.Chat, logger),
	}
}
