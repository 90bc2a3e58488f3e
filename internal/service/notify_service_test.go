package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/dao"
	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/pkg/code"
	"github.com/haierkeys/link-watcher-service/pkg/diff"
	"github.com/haierkeys/link-watcher-service/pkg/severity"
	"github.com/haierkeys/link-watcher-service/pkg/summarizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotifyEnv(t *testing.T) (NotifyService, domain.NotificationRepository) {
	t.Helper()

	db, err := dao.NewDBEngine(&dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	require.NoError(t, err)

	repo := dao.NewNotificationRepository(dao.New(db, context.Background()))
	svc := NewNotifyService(repo, &ServiceConfig{}, nil)
	return svc, repo
}

func testEvent(sev severity.Severity) ChangeEvent {
	return ChangeEvent{
		LinkID:     1,
		CheckID:    10,
		URL:        "https://example.com/pricing",
		Label:      "Pricing",
		Summary:    "Price changed from $49 to $39",
		Severity:   sev,
		ChangeType: domain.ChangeTypeModified,
		Snippets: []diff.Snippet{
			{Text: "$39", Context: "Added: ...Pro plan → per month..."},
		},
		Highlights: []summarizer.Highlight{
			{Title: "Price Drop", Snippet: "$49 → $39", Context: "Pricing section"},
		},
		CheckedAt: time.Now(),
	}
}

func TestDispatchBelowThresholdNoRecords(t *testing.T) {
	svc, repo := newNotifyEnv(t)

	var hits atomic.Int64
	slack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(slack.Close)

	settings := domain.AlertSettings{
		SlackEnabled:      true,
		SlackWebhookURL:   slack.URL,
		SeverityThreshold: severity.Major,
	}

	// minor < major，全部渠道静默跳过
	svc.Dispatch(context.Background(), testEvent(severity.Minor), settings)

	assert.Equal(t, int64(0), hits.Load())
	records, err := repo.ListByCheck(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDispatchSlackSent(t *testing.T) {
	svc, repo := newNotifyEnv(t)

	var payload atomic.Value
	slack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		payload.Store(body)
	}))
	t.Cleanup(slack.Close)

	settings := domain.AlertSettings{
		SlackEnabled:      true,
		SlackWebhookURL:   slack.URL,
		SeverityThreshold: severity.Moderate,
	}
	svc.Dispatch(context.Background(), testEvent(severity.Major), settings)

	records, err := repo.ListByCheck(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.NotificationTypeSlack, records[0].Type)
	assert.Equal(t, domain.NotificationStatusSent, records[0].Status)
	assert.Empty(t, records[0].Error)

	// 负载为 Blocks 结构
	var body map[string]any
	require.NoError(t, json.Unmarshal(payload.Load().([]byte), &body))
	attachments, ok := body["attachments"].([]any)
	require.True(t, ok)
	require.Len(t, attachments, 1)
	attachment := attachments[0].(map[string]any)
	assert.Equal(t, "#ff4444", attachment["color"])
	assert.NotEmpty(t, attachment["blocks"])
}

func TestDispatchChannelFailureIsolated(t *testing.T) {
	svc, repo := newNotifyEnv(t)

	slack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "channel_not_found", http.StatusInternalServerError)
	}))
	t.Cleanup(slack.Close)

	// 邮件未配置 SMTP，投递失败；Slack 返回 500，也失败
	// 两个渠道各自落一条失败记录，互不影响
	settings := domain.AlertSettings{
		EmailEnabled:      true,
		EmailTo:           "ops@example.com",
		SlackEnabled:      true,
		SlackWebhookURL:   slack.URL,
		SeverityThreshold: severity.Minor,
	}
	svc.Dispatch(context.Background(), testEvent(severity.Major), settings)

	records, err := repo.ListByCheck(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byType := map[domain.NotificationType]*domain.Notification{}
	for _, r := range records {
		byType[r.Type] = r
	}
	require.Contains(t, byType, domain.NotificationTypeEmail)
	require.Contains(t, byType, domain.NotificationTypeSlack)
	assert.Equal(t, domain.NotificationStatusFailed, byType[domain.NotificationTypeEmail].Status)
	assert.Equal(t, domain.NotificationStatusFailed, byType[domain.NotificationTypeSlack].Status)
	assert.Contains(t, byType[domain.NotificationTypeSlack].Error, "500")
}

func TestDispatchMissingDestinationSkipped(t *testing.T) {
	svc, repo := newNotifyEnv(t)

	// 渠道启用但目标地址缺失：跳过且不落记录
	settings := domain.AlertSettings{
		EmailEnabled:      true,
		SlackEnabled:      true,
		SeverityThreshold: severity.Minor,
	}
	svc.Dispatch(context.Background(), testEvent(severity.Major), settings)

	records, err := repo.ListByCheck(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSendTestRequiresChannel(t *testing.T) {
	svc, _ := newNotifyEnv(t)

	_, err := svc.SendTest(context.Background(), "", "")
	assert.Equal(t, code.ErrorNotifyNoChannel, err)
}

func TestSendTestSlack(t *testing.T) {
	svc, repo := newNotifyEnv(t)

	slack := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(slack.Close)

	result, err := svc.SendTest(context.Background(), "", slack.URL)
	require.NoError(t, err)
	assert.Equal(t, "sent", result.Slack)
	assert.Empty(t, result.Email)

	// 测试通知不落记录
	records, err := repo.ListByLink(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBuildEmailHTML(t *testing.T) {
	html := buildEmailHTML(testEvent(severity.Major))

	assert.Contains(t, html, "LINK")
	assert.Contains(t, html, "WATCHER")
	assert.Contains(t, html, "#ff4444")
	assert.Contains(t, html, "major change detected")
	assert.Contains(t, html, "Pricing section")
	assert.Contains(t, html, "https://example.com/pricing")
}
