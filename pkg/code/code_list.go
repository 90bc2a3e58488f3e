package code

// 成功码
var (
	Success = NewSuss(0, lang{en: "Success", zh_cn: "成功"})
	// SuccessNoChange 页面内容未发生变化
	SuccessNoChange = NewSuss(1, lang{en: "Content unchanged.", zh_cn: "内容无变化"})
)

// 通用错误码
var (
	ErrorServerInternal = NewError(10000, lang{en: "Internal Server Error", zh_cn: "服务内部错误"})
	ErrorInvalidParams  = NewError(10001, lang{en: "Invalid Params", zh_cn: "入参错误"})
	ErrorNotFoundAPI    = NewError(10002, lang{en: "API Not Found", zh_cn: "接口不存在"})
	ErrorTooManyRequest = NewError(10003, lang{en: "Too Many Requests", zh_cn: "请求过多"})
	ErrorDBQueryFail    = NewError(10004, lang{en: "Database Query Failed", zh_cn: "数据库查询失败"})
)

// 链接相关错误码
var (
	ErrorLinkNotFound     = NewError(20001, lang{en: "Link Not Found", zh_cn: "链接不存在"})
	ErrorLinkInvalidURL   = NewError(20002, lang{en: "Invalid URL", zh_cn: "URL 无效"})
	ErrorLinkURLExists    = NewError(20003, lang{en: "URL already exists.", zh_cn: "URL 已存在"})
	ErrorLinkLimitReached = NewError(20004, lang{en: "Maximum number of links reached.", zh_cn: "已达到链接数量上限"})
)

// 项目相关错误码
var (
	ErrorProjectNotFound   = NewError(21001, lang{en: "Project Not Found", zh_cn: "项目不存在"})
	ErrorProjectNameExists = NewError(21002, lang{en: "Project name already exists.", zh_cn: "项目名称已存在"})
)

// 检查相关错误码
var (
	ErrorCheckNotFound = NewError(22001, lang{en: "Check Not Found", zh_cn: "检查记录不存在"})
	// ErrorCheckRunning 同一链接的检查已在运行中
	ErrorCheckRunning = NewError(22002, lang{en: "A check is already running for this link.", zh_cn: "该链接的检查正在进行中"})
	// ErrorCheckFetchFail 抓取或解析失败，具体原因在 details 中
	ErrorCheckFetchFail = NewError(22003, lang{en: "Page fetch failed", zh_cn: "页面抓取失败"})
)

// 通知相关错误码
var (
	ErrorNotifyNoChannel = NewError(23001, lang{en: "No notification channel configured.", zh_cn: "未配置任何通知渠道"})
	ErrorNotifySendFail  = NewError(23002, lang{en: "Notification delivery failed", zh_cn: "通知发送失败"})
)
