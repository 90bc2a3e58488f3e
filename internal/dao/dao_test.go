package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/pkg/diff"
	"github.com/haierkeys/link-watcher-service/pkg/severity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDao 基于内存 sqlite 创建 Dao
func newTestDao(t *testing.T) *Dao {
	t.Helper()

	db, err := NewDBEngine(&DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	require.NoError(t, err)

	return New(db, context.Background())
}

func TestLinkRepositoryCRUD(t *testing.T) {
	d := newTestDao(t)
	repo := NewLinkRepository(d)
	ctx := context.Background()

	link, err := repo.Create(ctx, &domain.Link{
		URL:            "https://example.com/pricing",
		Label:          "Pricing",
		Tags:           []string{"billing", "web"},
		CheckFrequency: domain.FrequencyManual,
	})
	require.NoError(t, err)
	require.NotZero(t, link.ID)

	got, err := repo.GetByID(ctx, link.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "https://example.com/pricing", got.URL)
	assert.Equal(t, []string{"billing", "web"}, got.Tags)

	byURL, err := repo.GetByURL(ctx, "https://example.com/pricing")
	require.NoError(t, err)
	require.NotNil(t, byURL)
	assert.Equal(t, link.ID, byURL.ID)

	// 重复 URL 触发唯一索引冲突
	_, err = repo.Create(ctx, &domain.Link{URL: "https://example.com/pricing"})
	assert.Error(t, err)

	// 不存在的记录返回 nil, nil
	missing, err := repo.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	checkedAt := time.Now()
	require.NoError(t, repo.UpdateCheckMeta(ctx, link.ID, "abc123", checkedAt))
	got, err = repo.GetByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.LastHash)
	assert.False(t, got.LastCheckedAt.IsZero())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, link.ID))
	got, err = repo.GetByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLinkRepositoryListFilter(t *testing.T) {
	d := newTestDao(t)
	repo := NewLinkRepository(d)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Link{URL: "https://a.example.com", ProjectID: 1, Tags: []string{"prod"}})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Link{URL: "https://b.example.com", ProjectID: 2, Tags: []string{"staging"}})
	require.NoError(t, err)

	all, err := repo.List(ctx, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byProject, err := repo.List(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, byProject, 1)
	assert.Equal(t, "https://a.example.com", byProject[0].URL)

	byTag, err := repo.List(ctx, 0, "staging")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "https://b.example.com", byTag[0].URL)

	require.NoError(t, repo.DetachProject(ctx, 1))
	byProject, err = repo.List(ctx, 1, "")
	require.NoError(t, err)
	assert.Empty(t, byProject)
}

func TestProjectRepository(t *testing.T) {
	d := newTestDao(t)
	repo := NewProjectRepository(d)
	ctx := context.Background()

	p, err := repo.Create(ctx, &domain.Project{
		Name:        "marketing",
		Description: "marketing pages",
		Alert: domain.AlertSettings{
			EmailEnabled:      true,
			EmailTo:           "ops@example.com",
			SeverityThreshold: severity.Moderate,
		},
	})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	got, err := repo.GetByName(ctx, "marketing")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Alert.EmailEnabled)
	assert.Equal(t, severity.Moderate, got.Alert.SeverityThreshold)

	got.Alert.SlackEnabled = true
	got.Alert.SlackWebhookURL = "https://hooks.slack.com/services/T/B/X"
	got.Alert.SeverityThreshold = severity.Major
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Alert.SlackEnabled)
	assert.Equal(t, severity.Major, got.Alert.SeverityThreshold)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, p.ID))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCheckRepositoryRoundTrip(t *testing.T) {
	d := newTestDao(t)
	repo := NewCheckRepository(d)
	ctx := context.Background()

	check, err := repo.Create(ctx, &domain.Check{
		LinkID:     1,
		ChangeType: domain.ChangeTypeModified,
		Severity:   severity.Major,
		Summary:    "Price dropped from $49 to $39",
		Snapshot:   "Pro plan $39 per month",
		Snippets: []diff.Snippet{
			{Text: "$39", Context: "Added: ...Pro plan → per month..."},
		},
		KeywordTriggers: []string{"pricing"},
		CheckedAt:       time.Now(),
	})
	require.NoError(t, err)
	require.NotZero(t, check.ID)

	got, err := repo.GetByID(ctx, 1, check.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, severity.Major, got.Severity)
	require.Len(t, got.Snippets, 1)
	assert.Equal(t, "$39", got.Snippets[0].Text)
	assert.Equal(t, []string{"pricing"}, got.KeywordTriggers)

	latest, err := repo.GetLatestByLink(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, check.ID, latest.ID)

	// 其他链接下查不到该记录
	other, err := repo.GetByID(ctx, 2, check.ID)
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestCheckRepositoryPrune(t *testing.T) {
	d := newTestDao(t)
	repo := NewCheckRepository(d)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 6; i++ {
		_, err := repo.Create(ctx, &domain.Check{
			LinkID:     1,
			ChangeType: domain.ChangeTypeModified,
			Severity:   severity.Minor,
			Snapshot:   fmt.Sprintf("snapshot %d", i),
			CheckedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	require.NoError(t, repo.PruneByLink(ctx, 1, 5))

	list, err := repo.ListByLink(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 5)
	// 最老的一条被删除，最新的保留
	assert.Equal(t, "snapshot 5", list[0].Snapshot)
	for _, c := range list {
		assert.NotEqual(t, "snapshot 0", c.Snapshot)
	}
}

func TestCheckRepositoryLatestContentSkipsErrors(t *testing.T) {
	d := newTestDao(t)
	repo := NewCheckRepository(d)
	ctx := context.Background()

	now := time.Now()
	_, err := repo.Create(ctx, &domain.Check{
		LinkID: 1, ChangeType: domain.ChangeTypeAdded,
		Snapshot: "good snapshot", CheckedAt: now.Add(-2 * time.Hour),
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Check{
		LinkID: 1, ChangeType: domain.ChangeTypeError,
		Error: "Fetch error: status 500", CheckedAt: now.Add(-1 * time.Hour),
	})
	require.NoError(t, err)

	// 最新一条是失败记录，但对比基准要取最后一条有效快照
	latest, err := repo.GetLatestByLink(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, domain.ChangeTypeError, latest.ChangeType)

	baseline, err := repo.GetLatestContentByLink(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, baseline)
	assert.Equal(t, domain.ChangeTypeAdded, baseline.ChangeType)
	assert.Equal(t, "good snapshot", baseline.Snapshot)

	none, err := repo.GetLatestContentByLink(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCheckRepositoryListChangesSince(t *testing.T) {
	d := newTestDao(t)
	repo := NewCheckRepository(d)
	ctx := context.Background()

	now := time.Now()
	_, err := repo.Create(ctx, &domain.Check{
		LinkID: 1, ChangeType: domain.ChangeTypeModified, CheckedAt: now,
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Check{
		LinkID: 1, ChangeType: domain.ChangeTypeNone, CheckedAt: now,
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Check{
		LinkID: 2, ChangeType: domain.ChangeTypeAdded, CheckedAt: now.Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	changes, err := repo.ListChangesSince(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.ChangeTypeModified, changes[0].ChangeType)
}

func TestNotificationRepository(t *testing.T) {
	d := newTestDao(t)
	repo := NewNotificationRepository(d)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Notification{
		LinkID: 1, CheckID: 10,
		Type: domain.NotificationTypeEmail, Status: domain.NotificationStatusSent,
		SentAt: time.Now(),
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Notification{
		LinkID: 1, CheckID: 10,
		Type: domain.NotificationTypeSlack, Status: domain.NotificationStatusFailed,
		Error:  "webhook returned status 500",
		SentAt: time.Now().Add(-100 * 24 * time.Hour),
	})
	require.NoError(t, err)

	byCheck, err := repo.ListByCheck(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, byCheck, 2)

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	byLink, err := repo.ListByLink(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byLink, 1)
	assert.Equal(t, domain.NotificationTypeEmail, byLink[0].Type)

	require.NoError(t, repo.DeleteByLink(ctx, 1))
	byLink, err = repo.ListByLink(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, byLink)
}
