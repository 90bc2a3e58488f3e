package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/haierkeys/link-watcher-service/internal/dao"
	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/pkg/code"
	"github.com/haierkeys/link-watcher-service/pkg/linklock"
	"github.com/haierkeys/link-watcher-service/pkg/severity"
	"github.com/haierkeys/link-watcher-service/pkg/summarizer"
	"github.com/haierkeys/link-watcher-service/pkg/workerpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv 检查流水线测试环境
type testEnv struct {
	dao         *dao.Dao
	linkRepo    domain.LinkRepository
	checkRepo   domain.CheckRepository
	projectRepo domain.ProjectRepository
	notifyRepo  domain.NotificationRepository
	svc         CheckService
	pool        *workerpool.Pool
	locks       *linklock.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := dao.NewDBEngine(&dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	require.NoError(t, err)

	d := dao.New(db, context.Background())
	linkRepo := dao.NewLinkRepository(d)
	checkRepo := dao.NewCheckRepository(d)
	projectRepo := dao.NewProjectRepository(d)
	notifyRepo := dao.NewNotificationRepository(d)

	config := &ServiceConfig{
		Monitor: MonitorServiceConfig{
			FetchTimeout:  5,
			MaxFetchChars: 200000,
			HistoryKeep:   5,
			MaxLinks:      8,
		},
	}

	pool := workerpool.New(&workerpool.Config{MaxWorkers: 2, QueueSize: 8}, nil)
	t.Cleanup(func() { pool.Shutdown(time.Second) })

	locks := linklock.NewRegistry()
	// APIKey 为空，摘要始终走回退
	sum := summarizer.NewClient(summarizer.Config{}, nil)
	notify := NewNotifyService(notifyRepo, config, nil)

	svc := NewCheckService(
		linkRepo, checkRepo, projectRepo,
		NewFetcher(&config.Monitor, nil),
		sum, notify, locks, pool, config, nil,
	)

	return &testEnv{
		dao:         d,
		linkRepo:    linkRepo,
		checkRepo:   checkRepo,
		projectRepo: projectRepo,
		notifyRepo:  notifyRepo,
		svc:         svc,
		pool:        pool,
		locks:       locks,
	}
}

// newPageServer 返回可切换内容的页面服务器
func newPageServer(t *testing.T) (*httptest.Server, func(string)) {
	t.Helper()

	var mu sync.Mutex
	body := ""
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, func(s string) {
		mu.Lock()
		body = s
		mu.Unlock()
	}
}

func mustCreateLink(t *testing.T, env *testEnv, url string) *domain.Link {
	t.Helper()
	link, err := env.linkRepo.Create(context.Background(), &domain.Link{
		URL:            url,
		CheckFrequency: domain.FrequencyManual,
	})
	require.NoError(t, err)
	return link
}

func TestRunFirstCheckIsAdded(t *testing.T) {
	env := newTestEnv(t)
	srv, setBody := newPageServer(t)
	setBody("<html><body><p>Hello world</p></body></html>")

	link := mustCreateLink(t, env, srv.URL)

	result, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "added", result.Status)
	assert.NotZero(t, result.CheckID)
	assert.NotEmpty(t, result.DiffHTML)

	// 首次检查后链接指纹已更新
	got, err := env.linkRepo.GetByID(context.Background(), link.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, got.LastHash)
	assert.False(t, got.LastCheckedAt.IsZero())
}

func TestRunNoChangeShortCircuit(t *testing.T) {
	env := newTestEnv(t)
	srv, setBody := newPageServer(t)
	setBody("<html><body><p>Stable content</p></body></html>")

	link := mustCreateLink(t, env, srv.URL)

	first, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)
	require.Equal(t, "added", first.Status)

	// 内容未变时短路，不产生新的检查记录
	second, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "no-change", second.Status)
	assert.Equal(t, "Content unchanged.", second.Summary)
	assert.Zero(t, second.CheckID)

	checks, err := env.checkRepo.ListByLink(context.Background(), link.ID, 0)
	require.NoError(t, err)
	assert.Len(t, checks, 1)
}

func TestRunForceBypassesShortCircuit(t *testing.T) {
	env := newTestEnv(t)
	srv, setBody := newPageServer(t)
	setBody("<html><body><p>Stable content</p></body></html>")

	link := mustCreateLink(t, env, srv.URL)

	_, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)

	// force 跳过指纹短路，即使内容一致也走完整流水线
	result, err := env.svc.Run(context.Background(), link.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "no-change", result.Status)
	assert.NotZero(t, result.CheckID)

	checks, err := env.checkRepo.ListByLink(context.Background(), link.ID, 0)
	require.NoError(t, err)
	assert.Len(t, checks, 2)
}

func TestRunModifiedWithPricingKeyword(t *testing.T) {
	env := newTestEnv(t)
	srv, setBody := newPageServer(t)
	setBody("<html><body><p>Contact us for details</p></body></html>")

	link := mustCreateLink(t, env, srv.URL)

	_, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)

	setBody("<html><body><p>New pricing: $39 per month</p></body></html>")

	result, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "modified", result.Status)

	// 摘要服务未配置走回退，但关键词 "pricing" 强制 major
	assert.Equal(t, "major", result.Severity)
	assert.Contains(t, result.KeywordTriggers, "pricing")
	assert.NotEmpty(t, result.Snippets)
	assert.Equal(t, summarizer.FallbackSummary, result.Summary)
}

func TestRunHistoryCappedAtFive(t *testing.T) {
	env := newTestEnv(t)
	srv, setBody := newPageServer(t)

	link := mustCreateLink(t, env, srv.URL)

	pages := []string{
		"<html><body><p>version one</p></body></html>",
		"<html><body><p>version two</p></body></html>",
		"<html><body><p>version three</p></body></html>",
		"<html><body><p>version four</p></body></html>",
		"<html><body><p>version five</p></body></html>",
		"<html><body><p>version six</p></body></html>",
	}
	for _, page := range pages {
		setBody(page)
		_, err := env.svc.Run(context.Background(), link.ID, false)
		require.NoError(t, err)
	}

	checks, err := env.checkRepo.ListByLink(context.Background(), link.ID, 0)
	require.NoError(t, err)
	assert.Len(t, checks, 5)
}

func TestRunFetchErrorRecorded(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	t.Cleanup(srv.Close)

	link := mustCreateLink(t, env, srv.URL)

	result, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "error", result.Status)
	assert.Contains(t, result.Summary, "Fetch error")

	checks, err := env.checkRepo.ListByLink(context.Background(), link.ID, 0)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, domain.ChangeTypeError, checks[0].ChangeType)

	// 抓取失败也更新最近检查时间
	got, err := env.linkRepo.GetByID(context.Background(), link.ID)
	require.NoError(t, err)
	assert.False(t, got.LastCheckedAt.IsZero())
}

func TestRunAfterErrorKeepsDiffBaseline(t *testing.T) {
	env := newTestEnv(t)

	var mu sync.Mutex
	body := "<html><body><p>Stable content</p></body></html>"
	failing := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if failing {
			http.Error(w, "upstream down", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	link := mustCreateLink(t, env, srv.URL)

	first, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)
	require.Equal(t, "added", first.Status)

	mu.Lock()
	failing = true
	mu.Unlock()
	failed, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)
	require.Equal(t, "error", failed.Status)

	// 失败记录不携带快照，恢复后的对比基准仍是最后一份有效快照
	mu.Lock()
	failing = false
	mu.Unlock()
	recovered, err := env.svc.Run(context.Background(), link.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "no-change", recovered.Status)

	// 内容真正变化时是 modified，已有历史记录的链接不会再回到 added
	mu.Lock()
	failing = true
	mu.Unlock()
	_, err = env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)

	mu.Lock()
	failing = false
	body = "<html><body><p>Updated content</p></body></html>"
	mu.Unlock()
	changed, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "modified", changed.Status)
	assert.NotEmpty(t, changed.Snippets)
}

func TestRunUnchangedForceDoesNotNotify(t *testing.T) {
	env := newTestEnv(t)
	srv, setBody := newPageServer(t)
	setBody("<html><body><p>Stable content</p></body></html>")

	var mu sync.Mutex
	hits := 0
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(webhook.Close)

	project, err := env.projectRepo.Create(context.Background(), &domain.Project{
		Name: "watch",
		Alert: domain.AlertSettings{
			SlackEnabled:      true,
			SlackWebhookURL:   webhook.URL,
			SeverityThreshold: severity.Minor,
		},
	})
	require.NoError(t, err)

	link, err := env.linkRepo.Create(context.Background(), &domain.Link{
		URL:            srv.URL,
		ProjectID:      project.ID,
		CheckFrequency: domain.FrequencyManual,
	})
	require.NoError(t, err)

	// 首次检查产生变更，告警异步送达
	first, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)
	require.Equal(t, "added", first.Status)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return hits == 1
	}, 2*time.Second, 20*time.Millisecond)

	// force 触发的无变更检查不应产生任何告警
	result, err := env.svc.Run(context.Background(), link.ID, true)
	require.NoError(t, err)
	require.Equal(t, "no-change", result.Status)

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, hits)
	mu.Unlock()

	records, err := env.notifyRepo.ListByLink(context.Background(), link.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRunNormalizeErrorRecorded(t *testing.T) {
	env := newTestEnv(t)
	srv, setBody := newPageServer(t)
	// body 中没有任何可见文本，归一化判定为空内容
	setBody("<html><body><script>var x = 1;</script></body></html>")

	link := mustCreateLink(t, env, srv.URL)

	result, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "error", result.Status)
	assert.Contains(t, result.Summary, "Normalize error")
}

func TestRunLinkNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Run(context.Background(), 9999, false)
	assert.Equal(t, code.ErrorLinkNotFound, err)
}

func TestRunRejectsConcurrentCheck(t *testing.T) {
	env := newTestEnv(t)
	srv, setBody := newPageServer(t)
	setBody("<html><body><p>content</p></body></html>")

	link := mustCreateLink(t, env, srv.URL)

	// 模拟另一个正在执行的检查
	require.True(t, env.locks.TryAcquire(link.ID))
	defer env.locks.Release(link.ID)

	_, err := env.svc.Run(context.Background(), link.ID, false)
	assert.Equal(t, code.ErrorCheckRunning, err)
}

func TestListAndGet(t *testing.T) {
	env := newTestEnv(t)
	srv, setBody := newPageServer(t)
	setBody("<html><body><p>content</p></body></html>")

	link := mustCreateLink(t, env, srv.URL)

	result, err := env.svc.Run(context.Background(), link.ID, false)
	require.NoError(t, err)

	list, err := env.svc.List(context.Background(), link.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, result.CheckID, list[0].ID)

	got, err := env.svc.Get(context.Background(), link.ID, result.CheckID)
	require.NoError(t, err)
	assert.Equal(t, "added", got.ChangeType)

	_, err = env.svc.Get(context.Background(), link.ID, 9999)
	assert.Equal(t, code.ErrorCheckNotFound, err)
}

func TestFetcherNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(&MonitorServiceConfig{FetchTimeout: 5}, nil)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Excerpt, "not found")
}

func TestFetcherBodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 1000; i++ {
			w.Write([]byte("0123456789"))
		}
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(&MonitorServiceConfig{FetchTimeout: 5, MaxFetchChars: 100}, nil)
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, 100)
}

func TestFetcherBodyCapRuneSafe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 200; i++ {
			w.Write([]byte("价格页面内容更新"))
		}
	}))
	t.Cleanup(srv.Close)

	// 上限按字符计，截断不能落在多字节字符中间
	f := NewFetcher(&MonitorServiceConfig{FetchTimeout: 5, MaxFetchChars: 100}, nil)
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(body))
	assert.Equal(t, 100, utf8.RuneCountInString(body))
}
