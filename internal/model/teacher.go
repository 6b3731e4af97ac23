package model

// Teacher 讲师表 — 对应 teachers
type Teacher struct {
	TeacherID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name      string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Bio       string  `gorm:"type:text;not null;default:''"                  json:"bio"`
	Expertise string  `gorm:"type:varchar(100);not null;default:''"          json:"expertise"`
	PhotoURL  *string `gorm:"type:varchar(500)"                              json:"photo_url,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }
