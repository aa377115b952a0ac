package errors

import "errors"

// 业务错误分类哨兵。各 Service 的具体错误通过 fmt.Errorf("%w: ...") 包装
// 其中一类，Handler 层用 errors.Is 按类映射 HTTP 状态码。
var (
	// ErrNotFound 引用的资源不存在
	ErrNotFound = errors.New("资源不存在")
	// ErrInvalidArgument 输入在语义上不合法（如起始日期晚于结束日期）
	ErrInvalidArgument = errors.New("参数无效")
	// ErrConflict 变更会违反唯一性或区间重叠约束
	ErrConflict = errors.New("资源冲突")
	// ErrInvalidState 目标存在但当前状态不允许该转换
	ErrInvalidState = errors.New("当前状态不允许该操作")
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
