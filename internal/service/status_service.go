package service

import (
	"context"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/dto"
	"github.com/haierkeys/link-watcher-service/pkg/summarizer"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatusService 定义健康探测服务接口
type StatusService interface {
	// Probe 探测数据库与摘要服务可用性
	// 任一依赖不可用时整体状态降级为 degraded
	Probe(ctx context.Context) *dto.StatusDTO
}

// statusService 实现 StatusService 接口
type statusService struct {
	db         *gorm.DB
	summarizer *summarizer.Client
	version    string
	logger     *zap.Logger
}

// NewStatusService 创建 StatusService 实例
func NewStatusService(db *gorm.DB, sum *summarizer.Client, version string, log *zap.Logger) StatusService {
	if log == nil {
		log = zap.NewNop()
	}
	return &statusService{
		db:         db,
		summarizer: sum,
		version:    version,
		logger:     log,
	}
}

// Probe 探测数据库与摘要服务可用性
func (s *statusService) Probe(ctx context.Context) *dto.StatusDTO {
	status := &dto.StatusDTO{Version: s.version}

	start := time.Now()
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.PingContext(ctx); err == nil {
			status.DatabaseOK = true
		} else {
			s.logger.Warn("database ping failed", zap.Error(err))
		}
	} else {
		s.logger.Warn("database handle unavailable", zap.Error(err))
	}
	status.DatabaseLatency = time.Since(start).Round(time.Millisecond).String()

	if s.summarizer.Enabled() {
		if _, err := s.summarizer.Ping(ctx); err == nil {
			status.SummarizerOK = true
		} else {
			s.logger.Warn("summarizer ping failed", zap.Error(err))
		}
	}

	if status.DatabaseOK && status.SummarizerOK {
		status.Status = "ok"
	} else {
		status.Status = "degraded"
	}
	return status
}
