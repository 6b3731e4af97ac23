package dto

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── 课程管理 ──

// CreateCourseRequest 创建课程请求（管理端）
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description" binding:"omitempty,max=5000"`
	DayOfWeek   int     `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime   string  `json:"start_time" binding:"required"` // "HH:MM"
	EndTime     string  `json:"end_time" binding:"required"`   // "HH:MM"
	MaxStudents int     `json:"max_students" binding:"omitempty,min=1"`
	TeacherID   *string `json:"teacher_id" binding:"omitempty,uuid"`
}

// UpdateCourseRequest 更新课程请求（管理端，字段可选）
type UpdateCourseRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	DayOfWeek   *int    `json:"day_of_week" binding:"omitempty,min=1,max=7"`
	StartTime   *string `json:"start_time" binding:"omitempty"`
	EndTime     *string `json:"end_time" binding:"omitempty"`
	MaxStudents *int    `json:"max_students" binding:"omitempty,min=1"`
	TeacherID   *string `json:"teacher_id" binding:"omitempty,uuid"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// ── 响应 ──

// CourseResponse 课程信息
type CourseResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	DayOfWeek     int              `json:"day_of_week"`
	DayName       string           `json:"day_name"`
	StartTime     string           `json:"start_time"`
	EndTime       string           `json:"end_time"`
	MaxStudents   int              `json:"max_students"`
	EnrolledCount int64            `json:"enrolled_count"`
	IsEnrolled    bool             `json:"is_enrolled"` // 当前用户是否已选；未登录恒为 false
	Version       int              `json:"version"`
	Teacher       *TeacherResponse `json:"teacher,omitempty"`
}
