package service

import (
	"context"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/internal/dto"
	"github.com/haierkeys/link-watcher-service/pkg/code"
	"github.com/haierkeys/link-watcher-service/pkg/severity"

	"golang.org/x/sync/singleflight"
)

// statsWindow 仪表盘统计的时间窗口
const statsWindow = 7 * 24 * time.Hour

// StatsService 定义仪表盘统计服务接口
type StatsService interface {
	// Dashboard 汇总最近窗口内的变更统计
	// 使用 Singleflight 合并并发请求
	Dashboard(ctx context.Context) (*dto.StatsDTO, error)
}

// statsService 实现 StatsService 接口
type statsService struct {
	linkRepo  domain.LinkRepository
	checkRepo domain.CheckRepository
	sf        *singleflight.Group
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(linkRepo domain.LinkRepository, checkRepo domain.CheckRepository) StatsService {
	return &statsService{
		linkRepo:  linkRepo,
		checkRepo: checkRepo,
		sf:        &singleflight.Group{},
	}
}

// Dashboard 汇总最近窗口内的变更统计
func (s *statsService) Dashboard(ctx context.Context) (*dto.StatsDTO, error) {
	result, err, _ := s.sf.Do("stats_dashboard", func() (interface{}, error) {
		return s.build(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*dto.StatsDTO), nil
}

func (s *statsService) build(ctx context.Context) (*dto.StatsDTO, error) {
	totalLinks, err := s.linkRepo.Count(ctx)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	since := time.Now().Add(-statsWindow)
	changes, err := s.checkRepo.ListChangesSince(ctx, since)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	stats := &dto.StatsDTO{
		TotalLinks:    totalLinks,
		RecentChanges: int64(len(changes)),
		SeverityCounts: map[string]int64{
			severity.Minor.String():    0,
			severity.Moderate.String(): 0,
			severity.Major.String():    0,
		},
	}

	// 变更次数最多的链接
	perLink := make(map[int64]int64)
	for _, c := range changes {
		stats.SeverityCounts[c.Severity.String()]++
		perLink[c.LinkID]++
	}

	var topLinkID, topCount int64
	for linkID, count := range perLink {
		if count > topCount || (count == topCount && linkID < topLinkID) {
			topLinkID, topCount = linkID, count
		}
	}
	if topLinkID > 0 {
		link, err := s.linkRepo.GetByID(ctx, topLinkID)
		if err != nil {
			return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
		}
		if link != nil {
			stats.MostActiveLink = &dto.MostActiveLinkDTO{
				LinkID:      link.ID,
				URL:         link.URL,
				Label:       link.DisplayName(),
				ChangeCount: topCount,
			}
		}
	}

	// 最近 7 天每天的变更数，旧日期在前
	now := time.Now()
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)

		var count int64
		for _, c := range changes {
			if !c.CheckedAt.Before(dayStart) && c.CheckedAt.Before(dayEnd) {
				count++
			}
		}
		stats.DailyChanges = append(stats.DailyChanges, dto.DailyChangeDTO{
			Date:  dayStart.Format("Mon"),
			Count: count,
		})
	}

	return stats, nil
}
