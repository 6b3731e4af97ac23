package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yerasnetwork/course-registration/internal/model"
	pkgerrors "github.com/yerasnetwork/course-registration/pkg/errors"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// List 按创建顺序分页返回课程
	List(ctx context.Context, offset, limit int) ([]model.Course, error)
	// Count 返回课程总数
	Count(ctx context.Context) (int64, error)
	// UpdateVersioned 带乐观锁的整体更新；版本不匹配返回 pkg/errors.ErrOptimisticLock
	UpdateVersioned(ctx context.Context, course *model.Course) error
	// Delete 删除课程；选课记录由外键 ON DELETE CASCADE 级联删除
	Delete(ctx context.Context, id string) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, offset, limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).Count(&total).Error
	return total, err
}

func (r *courseRepo) UpdateVersioned(ctx context.Context, course *model.Course) error {
	res := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ? AND version = ?", course.CourseID, course.Version).
		Updates(map[string]interface{}{
			"title":        course.Title,
			"description":  course.Description,
			"day_of_week":  course.DayOfWeek,
			"start_time":   course.StartTime,
			"end_time":     course.EndTime,
			"max_students": course.MaxStudents,
			"teacher_id":   course.TeacherID,
			"updated_by":   course.UpdatedBy,
			"version":      course.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 区分记录不存在与版本冲突
		var n int64
		if err := r.db.WithContext(ctx).
			Model(&model.Course{}).
			Where("course_id = ?", course.CourseID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		return pkgerrors.ErrOptimisticLock
	}
	course.Version++
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}
