// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Monitor MonitorServiceConfig // Monitor related config // 监控相关配置
	Mail    MailServiceConfig    // Mail delivery config // 邮件投递配置
	Notify  NotifyServiceConfig  // Notification related config // 通知相关配置
}

// MonitorServiceConfig monitor service configuration
// MonitorServiceConfig 监控服务配置
type MonitorServiceConfig struct {
	FetchTimeout  int    // Fetch timeout in seconds, default 10 // 抓取超时（秒），默认 10
	MaxFetchChars int    // Max characters kept from a fetched body // 抓取正文保留的最大字符数
	HistoryKeep   int    // Check records kept per link // 每个链接保留的检查记录数
	MaxLinks      int    // Max monitored links // 监控链接数量上限
	UserAgent     string // User-Agent header for fetches // 抓取使用的 User-Agent
}

// MailServiceConfig mail service configuration
// MailServiceConfig 邮件服务配置
type MailServiceConfig struct {
	Host     string // SMTP host // SMTP 主机
	Port     int    // SMTP port // SMTP 端口
	Username string // SMTP username // SMTP 用户名
	Password string // SMTP password // SMTP 密码
	From     string // Sender address // 发件人地址
}

// NotifyServiceConfig notification service configuration
// NotifyServiceConfig 通知服务配置
type NotifyServiceConfig struct {
	RecordKeepDays int // Days to keep notification records // 通知记录保留天数
}
