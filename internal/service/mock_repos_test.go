package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/yerasnetwork/course-registration/internal/model"
	"github.com/yerasnetwork/course-registration/internal/repository"
	pkgerrors "github.com/yerasnetwork/course-registration/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[string]*model.Teacher
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*model.Teacher)}
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	if teacher.TeacherID == "" {
		teacher.TeacherID = fmt.Sprintf("teacher-%d", len(m.teachers)+1)
	}
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	var result []model.Teacher
	for _, t := range m.teachers {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TeacherID < result[j].TeacherID })
	return result, nil
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *model.Teacher) error {
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id string) error {
	delete(m.teachers, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
	order   []string // 按创建顺序记录 ID
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = fmt.Sprintf("course-%d", len(m.courses)+1)
	}
	if course.Version == 0 {
		course.Version = 1
	}
	m.courses[course.CourseID] = course
	m.order = append(m.order, course.CourseID)
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c // 返回副本，避免调用方改写直穿存储
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context, offset, limit int) ([]model.Course, error) {
	var all []model.Course
	for _, id := range m.order {
		if c, ok := m.courses[id]; ok {
			all = append(all, *c)
		}
	}
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *mockCourseRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.courses)), nil
}

func (m *mockCourseRepo) UpdateVersioned(_ context.Context, course *model.Course) error {
	existing, ok := m.courses[course.CourseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if existing.Version != course.Version {
		return pkgerrors.ErrOptimisticLock
	}
	course.Version++
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments []model.Enrollment
	courses     *mockCourseRepo // 解析 Course 关联
	// capacityFailOnce 模拟"校验通过后被并发占满"：下一次写入返回容量错误
	capacityFailOnce bool
}

func newMockEnrollmentRepo(courses *mockCourseRepo) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{courses: courses}
}

func (m *mockEnrollmentRepo) CountByCourse(_ context.Context, courseID string) (int64, error) {
	var count int64
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (m *mockEnrollmentRepo) CountByCourses(_ context.Context, courseIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(courseIDs))
	for _, id := range courseIDs {
		for _, e := range m.enrollments {
			if e.CourseID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *mockEnrollmentRepo) ListSameDay(_ context.Context, studentID string, dayOfWeek int, excludeCourseID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID != studentID || e.CourseID == excludeCourseID {
			continue
		}
		course, ok := m.courses.courses[e.CourseID]
		if !ok || course.DayOfWeek != dayOfWeek {
			continue
		}
		e.Course = course
		result = append(result, e)
	}
	return result, nil
}

func (m *mockEnrollmentRepo) CreateWithCapacity(_ context.Context, enrollment *model.Enrollment) error {
	course, ok := m.courses.courses[enrollment.CourseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	for _, e := range m.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}

	if m.capacityFailOnce {
		m.capacityFailOnce = false
		return pkgerrors.ErrCapacityExceeded
	}

	var count int64
	for _, e := range m.enrollments {
		if e.CourseID == enrollment.CourseID {
			count++
		}
	}
	if count >= int64(course.MaxStudents) {
		return pkgerrors.ErrCapacityExceeded
	}

	if enrollment.EnrollmentID == "" {
		enrollment.EnrollmentID = fmt.Sprintf("enr-%d", len(m.enrollments)+1)
	}
	m.enrollments = append(m.enrollments, *enrollment)
	return nil
}

func (m *mockEnrollmentRepo) ListByStudent(_ context.Context, studentID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID != studentID {
			continue
		}
		if course, ok := m.courses.courses[e.CourseID]; ok {
			e.Course = course
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Course, result[j].Course
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		return a.StartTime < b.StartTime
	})
	return result, nil
}

func (m *mockEnrollmentRepo) Exists(_ context.Context, studentID, courseID string) (bool, error) {
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) ListCourseIDsByStudent(_ context.Context, studentID string) ([]string, error) {
	var ids []string
	for _, e := range m.enrollments {
		if e.StudentID == studentID {
			ids = append(ids, e.CourseID)
		}
	}
	return ids, nil
}

// ── 聚合辅助 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user       *mockUserRepo
	teacher    *mockTeacherRepo
	course     *mockCourseRepo
	enrollment *mockEnrollmentRepo
}

func newTestRepos() *testRepos {
	courses := newMockCourseRepo()
	return &testRepos{
		user:       newMockUserRepo(),
		teacher:    newMockTeacherRepo(),
		course:     courses,
		enrollment: newMockEnrollmentRepo(courses),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:       r.user,
		Teacher:    r.teacher,
		Course:     r.course,
		Enrollment: r.enrollment,
	}
}
