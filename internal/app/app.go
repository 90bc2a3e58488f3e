// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/dao"
	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/internal/service"
	pkgapp "github.com/haierkeys/link-watcher-service/pkg/app"
	"github.com/haierkeys/link-watcher-service/pkg/linklock"
	"github.com/haierkeys/link-watcher-service/pkg/summarizer"
	"github.com/haierkeys/link-watcher-service/pkg/workerpool"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool *workerpool.Pool
	linkLocks  *linklock.Registry

	// Repository 层
	LinkRepo         domain.LinkRepository
	ProjectRepo      domain.ProjectRepository
	CheckRepo        domain.CheckRepository
	NotificationRepo domain.NotificationRepository

	// Service 层
	LinkService    service.LinkService
	ProjectService service.ProjectService
	CheckService   service.CheckService
	NotifyService  service.NotifyService
	StatsService   service.StatsService
	StatusService  service.StatusService

	// 外部服务客户端
	summarizerClient *summarizer.Client
	fetcher          *service.Fetcher
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config: cfg,
		logger: logger,
		DB:     db,
	}

	// 初始化 Worker Pool（通知分发用）
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化链接互斥登记表
	a.linkLocks = linklock.NewRegistry()

	// 创建 DatabaseConfig 用于 DAO
	dbConfig := &dao.DatabaseConfig{
		Type:            cfg.Database.Type,
		Path:            cfg.Database.Path,
		UserName:        cfg.Database.UserName,
		Password:        cfg.Database.Password,
		Host:            cfg.Database.Host,
		Name:            cfg.Database.Name,
		TablePrefix:     cfg.Database.TablePrefix,
		AutoMigrate:     cfg.Database.AutoMigrate,
		Charset:         cfg.Database.Charset,
		ParseTime:       cfg.Database.ParseTime,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		RunMode:         cfg.Server.RunMode,
	}

	// 初始化 DAO（使用依赖注入）
	a.Dao = dao.New(db, context.Background(),
		dao.WithConfig(dbConfig),
		dao.WithLogger(logger),
	)

	// 初始化 Repository 层
	a.LinkRepo = dao.NewLinkRepository(a.Dao)
	a.ProjectRepo = dao.NewProjectRepository(a.Dao)
	a.CheckRepo = dao.NewCheckRepository(a.Dao)
	a.NotificationRepo = dao.NewNotificationRepository(a.Dao)

	// 创建 ServiceConfig（从 AppConfig 提取 Service 层需要的配置）
	svcConfig := &service.ServiceConfig{
		Monitor: service.MonitorServiceConfig{
			FetchTimeout:  cfg.Monitor.FetchTimeout,
			MaxFetchChars: cfg.Monitor.MaxFetchChars,
			HistoryKeep:   cfg.Monitor.HistoryKeep,
			MaxLinks:      cfg.Monitor.MaxLinks,
			UserAgent:     cfg.Monitor.UserAgent,
		},
		Mail: service.MailServiceConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		},
		Notify: service.NotifyServiceConfig{
			RecordKeepDays: cfg.Notify.RecordKeepDays,
		},
	}

	// 初始化外部服务客户端
	a.summarizerClient = summarizer.NewClient(summarizer.Config{
		Endpoint: cfg.Summarizer.Endpoint,
		Model:    cfg.Summarizer.Model,
		APIKey:   cfg.Summarizer.APIKey,
		Timeout:  cfg.Summarizer.Timeout,
	}, logger)
	a.fetcher = service.NewFetcher(&svcConfig.Monitor, logger)

	// 初始化 Service 层（依赖注入）
	a.NotifyService = service.NewNotifyService(a.NotificationRepo, svcConfig, logger)
	a.LinkService = service.NewLinkService(a.LinkRepo, a.CheckRepo, a.NotificationRepo, svcConfig, logger)
	a.ProjectService = service.NewProjectService(a.ProjectRepo, a.LinkRepo, logger)
	a.CheckService = service.NewCheckService(
		a.LinkRepo,
		a.CheckRepo,
		a.ProjectRepo,
		a.fetcher,
		a.summarizerClient,
		a.NotifyService,
		a.linkLocks,
		a.workerPool,
		svcConfig,
		logger,
	)
	a.StatsService = service.NewStatsService(a.LinkRepo, a.CheckRepo)
	a.StatusService = service.NewStatusService(db, a.summarizerClient, Version, logger)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("maxLinks", cfg.Monitor.MaxLinks))

	return a, nil
}

// Shutdown 优雅关闭应用容器
// 先排空通知分发队列，再关闭数据库连接
func (a *App) Shutdown(ctx context.Context) error {
	if a.workerPool != nil {
		timeout := 10 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := a.workerPool.Shutdown(timeout); err != nil {
			a.logger.Warn("worker pool shutdown with error", zap.Error(err))
		}
	}

	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Shutdown(ctx)
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Summarizer 获取语义摘要客户端
func (a *App) Summarizer() *summarizer.Client {
	return a.summarizerClient
}

// Fetcher 获取页面抓取器
func (a *App) Fetcher() *service.Fetcher {
	return a.fetcher
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// LinkLocks 获取链接互斥登记表
func (a *App) LinkLocks() *linklock.Registry {
	return a.linkLocks
}

// SubmitTaskAsync 异步提交任务到 Worker Pool（不等待结果）
// 返回错误如果池已满或已关闭
func (a *App) SubmitTaskAsync(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.SubmitAsync(ctx, task)
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}
