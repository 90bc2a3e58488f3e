package dto

// ---------------- DTO / Response ----------------

// DailyChangeDTO 某一天的变更数量
type DailyChangeDTO struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// MostActiveLinkDTO 近期变更最多的链接
type MostActiveLinkDTO struct {
	LinkID      int64  `json:"linkId"`
	URL         string `json:"url"`
	Label       string `json:"label"`
	ChangeCount int64  `json:"changeCount"`
}

// StatsDTO 仪表盘统计数据
type StatsDTO struct {
	TotalLinks     int64              `json:"totalLinks"`
	RecentChanges  int64              `json:"recentChanges"`
	SeverityCounts map[string]int64   `json:"severityCounts"`
	MostActiveLink *MostActiveLinkDTO `json:"mostActiveLink,omitempty"`
	DailyChanges   []DailyChangeDTO   `json:"dailyChanges"`
}

// StatusDTO 服务健康状态
type StatusDTO struct {
	Status          string `json:"status"`
	DatabaseOK      bool   `json:"databaseOk"`
	DatabaseLatency string `json:"databaseLatency"`
	SummarizerOK    bool   `json:"summarizerOk"`
	Version         string `json:"version"`
}
