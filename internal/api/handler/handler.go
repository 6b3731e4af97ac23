package handler

import "github.com/yerasnetwork/course-registration/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Course     *CourseHandler
	Teacher    *TeacherHandler
	Enrollment *EnrollmentHandler
	Chat       *ChatHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Course:     NewCourseHandler(svc.Course),
		Teacher:    NewTeacherHandler(svc.Teacher),
		Enrollment: NewEnrollmentHandler(svc.Enrollment, svc.Export),
		Chat:       NewChatHandler(svc.Chat),
	}
}
