package model

// Course 课程表 — 对应 courses
type Course struct {
	CourseID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Title       string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string  `gorm:"type:text;not null;default:''"                  json:"description"`
	DayOfWeek   int     `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7
	StartTime   string  `gorm:"type:varchar(5);not null"                       json:"start_time"` // 补零 "HH:MM"，字典序即时间序
	EndTime     string  `gorm:"type:varchar(5);not null"                       json:"end_time"`   // 补零 "HH:MM"
	MaxStudents int     `gorm:"not null;default:30"                            json:"max_students"`
	TeacherID   *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"` // NULL 表示暂未指派讲师
	VersionedModel

	// 关联
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }

// Slot 返回课程的周时段，用于冲突判定
func (c *Course) Slot() Slot {
	return Slot{DayOfWeek: c.DayOfWeek, StartTime: c.StartTime, EndTime: c.EndTime}
}
