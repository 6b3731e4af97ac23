package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrCapacityExceeded 容量复核失败：写入事务内课程已满员
var ErrCapacityExceeded = errors.New("课程报名人数已达上限")
