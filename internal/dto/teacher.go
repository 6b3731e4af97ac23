package dto

// ── 讲师管理 ──

// CreateTeacherRequest 创建讲师请求（管理端）
type CreateTeacherRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Bio       string  `json:"bio" binding:"omitempty,max=5000"`
	Expertise string  `json:"expertise" binding:"omitempty,max=100"`
	PhotoURL  *string `json:"photo_url" binding:"omitempty,url,max=500"`
}

// UpdateTeacherRequest 更新讲师请求（字段可选）
type UpdateTeacherRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Bio       *string `json:"bio" binding:"omitempty,max=5000"`
	Expertise *string `json:"expertise" binding:"omitempty,max=100"`
	PhotoURL  *string `json:"photo_url" binding:"omitempty,url,max=500"`
}

// TeacherResponse 讲师信息
type TeacherResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Bio       string  `json:"bio"`
	Expertise string  `json:"expertise"`
	PhotoURL  *string `json:"photo_url,omitempty"`
}
