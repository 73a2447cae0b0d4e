package errors

import "errors"

// ── 仓储层错误分类 ──
// 各后端统一以 fmt.Errorf("%w: ...") 包装下列哨兵错误，调用方使用 errors.Is 判断

var (
	// ErrNotFound 按标识查询、更新或删除时记录不存在
	ErrNotFound = errors.New("记录不存在")

	// ErrPermissionDenied 非工长（或用户不存在）尝试提交、修改工时报告
	ErrPermissionDenied = errors.New("无权执行该操作")

	// ErrValidation 枚举、日期、数值或标识格式非法，或引用的上级记录不存在
	ErrValidation = errors.New("数据校验失败")

	// ErrConfiguration 存储后端类型或数据库驱动配置非法，启动期致命错误
	ErrConfiguration = errors.New("配置错误")

	// ErrConflict 主键重复，或存在依赖记录导致无法删除
	ErrConflict = errors.New("数据冲突")
)
