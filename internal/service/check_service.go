package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/internal/dto"
	"github.com/haierkeys/link-watcher-service/pkg/code"
	"github.com/haierkeys/link-watcher-service/pkg/diff"
	"github.com/haierkeys/link-watcher-service/pkg/htmltext"
	"github.com/haierkeys/link-watcher-service/pkg/linklock"
	"github.com/haierkeys/link-watcher-service/pkg/logger"
	"github.com/haierkeys/link-watcher-service/pkg/severity"
	"github.com/haierkeys/link-watcher-service/pkg/summarizer"
	"github.com/haierkeys/link-watcher-service/pkg/timex"
	"github.com/haierkeys/link-watcher-service/pkg/workerpool"

	"go.uber.org/zap"
)

// CheckService 定义页面检查流水线接口
// 抓取 → 归一化 → 指纹比对 → 差异 → 级别判定 → 摘要 → 持久化 → 通知分发
type CheckService interface {
	// Run 对链接执行一次完整检查
	// force 为 true 时跳过指纹短路；同一链接并发执行时直接拒绝
	Run(ctx context.Context, linkID int64, force bool) (*dto.CheckResultDTO, error)

	// List 获取链接的历史检查记录（最新在前）
	List(ctx context.Context, linkID int64) ([]*dto.CheckDTO, error)

	// Get 获取链接的单条检查记录
	Get(ctx context.Context, linkID, checkID int64) (*dto.CheckDTO, error)
}

// checkService 实现 CheckService 接口
type checkService struct {
	linkRepo    domain.LinkRepository
	checkRepo   domain.CheckRepository
	projectRepo domain.ProjectRepository
	fetcher     *Fetcher
	summarizer  *summarizer.Client
	notify      NotifyService
	locks       *linklock.Registry
	pool        *workerpool.Pool
	config      *MonitorServiceConfig
	logger      *zap.Logger
}

// NewCheckService 创建 CheckService 实例
func NewCheckService(
	linkRepo domain.LinkRepository,
	checkRepo domain.CheckRepository,
	projectRepo domain.ProjectRepository,
	fetcher *Fetcher,
	sum *summarizer.Client,
	notify NotifyService,
	locks *linklock.Registry,
	pool *workerpool.Pool,
	config *ServiceConfig,
	log *zap.Logger,
) CheckService {
	if log == nil {
		log = zap.NewNop()
	}
	return &checkService{
		linkRepo:    linkRepo,
		checkRepo:   checkRepo,
		projectRepo: projectRepo,
		fetcher:     fetcher,
		summarizer:  sum,
		notify:      notify,
		locks:       locks,
		pool:        pool,
		config:      &config.Monitor,
		logger:      log,
	}
}

// Run 对链接执行一次完整检查
func (s *checkService) Run(ctx context.Context, linkID int64, force bool) (*dto.CheckResultDTO, error) {
	link, err := s.linkRepo.GetByID(ctx, linkID)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if link == nil {
		return nil, code.ErrorLinkNotFound
	}

	// 同一链接同一时间只允许一次检查
	if !s.locks.TryAcquire(linkID) {
		return nil, code.ErrorCheckRunning
	}
	defer s.locks.Release(linkID)

	start := time.Now()
	now := time.Now()

	// 1. 抓取并归一化
	raw, err := s.fetcher.Fetch(ctx, link.URL)
	if err != nil {
		return s.recordError(ctx, link, now, fmt.Sprintf("Fetch error: %s", err.Error()))
	}

	text, err := htmltext.Normalize(raw)
	if err != nil {
		return s.recordError(ctx, link, now, fmt.Sprintf("Normalize error: %s", err.Error()))
	}
	hash := htmltext.Fingerprint(text)

	// 2. 指纹短路：内容未变化时不做差异和持久化
	if !force && link.LastHash != "" && link.LastHash == hash {
		if err := s.linkRepo.UpdateCheckMeta(ctx, link.ID, link.LastHash, now); err != nil {
			s.logger.Warn("update link check meta failed",
				zap.Int64(logger.FieldLinkID, link.ID), zap.Error(err))
		}
		s.logger.Info("check finished, content unchanged",
			zap.Int64(logger.FieldLinkID, link.ID),
			zap.String(logger.FieldURL, link.URL),
			zap.Duration(logger.FieldDuration, time.Since(start)))
		return &dto.CheckResultDTO{
			LinkID:    link.ID,
			Status:    "no-change",
			Summary:   "Content unchanged.",
			CheckedAt: timex.Time(now).String(),
		}, nil
	}

	// 3. 对比基准取最近一条非失败记录，失败记录不携带快照
	latest, err := s.checkRepo.GetLatestByLink(ctx, link.ID)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	baseline, err := s.checkRepo.GetLatestContentByLink(ctx, link.ID)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	oldText := ""
	if baseline != nil {
		oldText = baseline.Snapshot
	}
	diffResult := diff.Compute(oldText, text)

	// added 仅在链接从未有过任何检查记录时成立
	changeType := domain.ChangeTypeModified
	if latest == nil {
		changeType = domain.ChangeTypeAdded
	} else if !diffResult.Changed {
		changeType = domain.ChangeTypeNone
	}

	// 4. 关键词启发式，只看变更片段文本
	var snippetTexts []string
	for _, snippet := range diffResult.Snippets {
		snippetTexts = append(snippetTexts, snippet.Text)
	}
	triggers, keywordSeverity := severity.Detect(strings.Join(snippetTexts, "\n"))

	// 5. 语义摘要，失败时内部回退，不会中断流水线
	sumResult := s.summarizer.Summarize(ctx, summarizer.Request{
		URL:       link.URL,
		CheckedAt: now.Format(time.RFC3339),
		Snippets:  diffResult.Snippets,
	})

	// 6. 最终级别取两种判定的较高者
	finalSeverity := severity.Merge(keywordSeverity, sumResult.Severity)

	// 7. 持久化检查记录
	check, err := s.checkRepo.Create(ctx, &domain.Check{
		LinkID:          link.ID,
		ChangeType:      changeType,
		Severity:        finalSeverity,
		Summary:         sumResult.Summary,
		Snapshot:        text,
		ContentHash:     hash,
		DiffHTML:        diffResult.HTML,
		Snippets:        diffResult.Snippets,
		KeywordTriggers: triggers,
		CheckedAt:       now,
	})
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	// 8. 更新链接元数据并收敛历史
	if err := s.linkRepo.UpdateCheckMeta(ctx, link.ID, hash, now); err != nil {
		s.logger.Warn("update link check meta failed",
			zap.Int64(logger.FieldLinkID, link.ID), zap.Error(err))
	}
	keep := s.config.HistoryKeep
	if keep <= 0 {
		keep = 5
	}
	if err := s.checkRepo.PruneByLink(ctx, link.ID, keep); err != nil {
		s.logger.Warn("prune check history failed",
			zap.Int64(logger.FieldLinkID, link.ID), zap.Error(err))
	}

	// 9. 仅内容变更时异步分发告警，不阻塞本次响应
	if check.IsChange() {
		s.dispatchAsync(link, check, sumResult)
	}

	s.logger.Info("check finished",
		zap.Int64(logger.FieldLinkID, link.ID),
		zap.Int64(logger.FieldCheckID, check.ID),
		zap.String(logger.FieldURL, link.URL),
		zap.String(logger.FieldChangeType, string(changeType)),
		zap.String(logger.FieldSeverity, finalSeverity.String()),
		zap.Duration(logger.FieldDuration, time.Since(start)))

	return &dto.CheckResultDTO{
		CheckID:         check.ID,
		LinkID:          link.ID,
		Status:          string(changeType),
		Severity:        finalSeverity.String(),
		Summary:         sumResult.Summary,
		DiffHTML:        diffResult.HTML,
		Snippets:        diffResult.Snippets,
		Highlights:      dto.NewHighlightDTOs(sumResult.Highlights),
		KeywordTriggers: triggers,
		CheckedAt:       timex.Time(now).String(),
	}, nil
}

// recordError 抓取或解析失败时落一条错误检查记录
// 保留 lastHash 不变，下次成功抓取仍可与最后一份有效快照比对
func (s *checkService) recordError(ctx context.Context, link *domain.Link, now time.Time, summary string) (*dto.CheckResultDTO, error) {
	check, err := s.checkRepo.Create(ctx, &domain.Check{
		LinkID:     link.ID,
		ChangeType: domain.ChangeTypeError,
		Severity:   severity.Minor,
		Summary:    summary,
		Error:      summary,
		CheckedAt:  now,
	})
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	if err := s.linkRepo.UpdateCheckMeta(ctx, link.ID, link.LastHash, now); err != nil {
		s.logger.Warn("update link check meta failed",
			zap.Int64(logger.FieldLinkID, link.ID), zap.Error(err))
	}

	s.logger.Warn("check failed",
		zap.Int64(logger.FieldLinkID, link.ID),
		zap.String(logger.FieldURL, link.URL),
		zap.String(logger.FieldError, summary))

	return &dto.CheckResultDTO{
		CheckID:   check.ID,
		LinkID:    link.ID,
		Status:    string(domain.ChangeTypeError),
		Summary:   summary,
		Error:     summary,
		CheckedAt: timex.Time(now).String(),
	}, nil
}

// dispatchAsync 通过 Worker Pool 异步分发通知
// 分发使用独立的后台 context，不随请求结束而取消
func (s *checkService) dispatchAsync(link *domain.Link, check *domain.Check, sumResult summarizer.Result) {
	if link.ProjectID <= 0 {
		return
	}

	event := ChangeEvent{
		LinkID:     link.ID,
		CheckID:    check.ID,
		URL:        link.URL,
		Label:      link.Label,
		Summary:    check.Summary,
		Severity:   check.Severity,
		ChangeType: check.ChangeType,
		Snippets:   check.Snippets,
		Highlights: sumResult.Highlights,
		CheckedAt:  check.CheckedAt,
	}
	projectID := link.ProjectID

	err := s.pool.SubmitAsync(context.Background(), func(taskCtx context.Context) error {
		project, err := s.projectRepo.GetByID(taskCtx, projectID)
		if err != nil {
			return err
		}
		if project == nil || !project.Alert.AnyChannelEnabled() {
			return nil
		}
		s.notify.Dispatch(taskCtx, event, project.Alert)
		return nil
	})
	if err != nil {
		s.logger.Warn("notification dispatch not scheduled",
			zap.Int64(logger.FieldLinkID, link.ID),
			zap.Int64(logger.FieldCheckID, check.ID),
			zap.Error(err))
	}
}

// List 获取链接的历史检查记录
func (s *checkService) List(ctx context.Context, linkID int64) ([]*dto.CheckDTO, error) {
	link, err := s.linkRepo.GetByID(ctx, linkID)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if link == nil {
		return nil, code.ErrorLinkNotFound
	}

	keep := s.config.HistoryKeep
	if keep <= 0 {
		keep = 5
	}
	checks, err := s.checkRepo.ListByLink(ctx, linkID, keep)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	var out []*dto.CheckDTO
	for _, c := range checks {
		out = append(out, dto.NewCheckDTO(c))
	}
	return out, nil
}

// Get 获取链接的单条检查记录
func (s *checkService) Get(ctx context.Context, linkID, checkID int64) (*dto.CheckDTO, error) {
	check, err := s.checkRepo.GetByID(ctx, linkID, checkID)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if check == nil {
		return nil, code.ErrorCheckNotFound
	}
	return dto.NewCheckDTO(check), nil
}
