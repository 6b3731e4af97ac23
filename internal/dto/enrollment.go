package dto

import "time"

// ── 选课 ──

// EnrollmentResponse 选课记录
type EnrollmentResponse struct {
	ID         string         `json:"id"`
	EnrolledAt time.Time      `json:"enrolled_at"`
	Course     CourseResponse `json:"course"`
}

// MyScheduleResponse 我的每周课表
// Items 按 day_of_week、start_time 升序排列
type MyScheduleResponse struct {
	Items []EnrollmentResponse `json:"items"`
	Total int                  `json:"total"`
}
