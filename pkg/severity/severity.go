// Package severity 提供变更严重级别的定义、关键词启发式判定与合并策略
package severity

import (
	"strings"
)

// Severity 变更严重级别，有序：minor < moderate < major
type Severity int

const (
	Minor Severity = iota
	Moderate
	Major
)

// 关键词按级别分组，匹配为大小写不敏感的子串匹配
// 词表与监控场景绑定：价格、条款、安全、下线类词汇直接视为 major
var (
	majorKeywords = []string{
		"price", "pricing", "cost", "fee", "payment", "billing",
		"terms", "policy", "privacy", "security", "breach",
		"deprecated", "discontinue", "shutdown", "removed", "delete",
		"breaking", "critical", "vulnerability", "exploit",
		"ban", "suspend", "illegal", "lawsuit",
	}
	moderateKeywords = []string{
		"update", "change", "new", "added", "feature",
		"limit", "quota", "rate limit", "plan", "tier",
		"beta", "launch", "release", "version",
		"warning", "notice", "important",
	}
)

func (s Severity) String() string {
	switch s {
	case Major:
		return "major"
	case Moderate:
		return "moderate"
	default:
		return "minor"
	}
}

// Parse 解析严重级别字符串，未知值返回 Minor 和 false
func Parse(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return Major, true
	case "moderate":
		return Moderate, true
	case "minor":
		return Minor, true
	}
	return Minor, false
}

// Merge 合并两个级别信号，返回较高的一个
// 任一信号单独升级即足以告警，互相之间不能降级
func Merge(a, b Severity) Severity {
	if a >= b {
		return a
	}
	return b
}

// Meets 判断 s 是否达到阈值 threshold
func (s Severity) Meets(threshold Severity) bool {
	return s >= threshold
}

// Detect 对文本做关键词启发式判定
// 命中任一 major 词即为 Major；否则命中 moderate 词为 Moderate；都未命中为 Minor
// 返回去重后的全部命中词，供审计展示
func Detect(text string) ([]string, Severity) {
	lower := strings.ToLower(text)

	var triggers []string
	seen := make(map[string]struct{})
	result := Minor

	for _, kw := range majorKeywords {
		if strings.Contains(lower, kw) {
			result = Major
			if _, ok := seen[kw]; !ok {
				seen[kw] = struct{}{}
				triggers = append(triggers, kw)
			}
		}
	}

	if result != Major {
		for _, kw := range moderateKeywords {
			if strings.Contains(lower, kw) {
				result = Moderate
				if _, ok := seen[kw]; !ok {
					seen[kw] = struct{}{}
					triggers = append(triggers, kw)
				}
			}
		}
	}

	return triggers, result
}
