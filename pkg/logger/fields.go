package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldLinkID 链接 ID 字段
	FieldLinkID = "linkId"

	// FieldCheckID 检查记录 ID 字段
	FieldCheckID = "checkId"

	// FieldProjectID 项目 ID 字段
	FieldProjectID = "projectId"

	// FieldURL 目标地址字段
	FieldURL = "url"

	// FieldChannel 通知通道字段
	FieldChannel = "channel"

	// FieldSeverity 严重级别字段
	FieldSeverity = "severity"

	// FieldChangeType 变更分类字段
	FieldChangeType = "changeType"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"
)
