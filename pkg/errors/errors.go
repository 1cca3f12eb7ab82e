package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：规划已被其他操作修改，提交的版本号已过期
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
