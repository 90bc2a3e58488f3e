package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/internal/dto"
	"github.com/haierkeys/link-watcher-service/pkg/code"
	"github.com/haierkeys/link-watcher-service/pkg/diff"
	"github.com/haierkeys/link-watcher-service/pkg/logger"
	"github.com/haierkeys/link-watcher-service/pkg/severity"
	"github.com/haierkeys/link-watcher-service/pkg/summarizer"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// 各级别的告警颜色与标记
var (
	severityColors = map[severity.Severity]string{
		severity.Minor:    "#555555",
		severity.Moderate: "#ffaa00",
		severity.Major:    "#ff4444",
	}
	severityEmojis = map[severity.Severity]string{
		severity.Minor:    "🟡",
		severity.Moderate: "🟠",
		severity.Major:    "🔴",
	}
)

// ChangeEvent 一次已确认的变更，通知渠道的输入
type ChangeEvent struct {
	LinkID     int64
	CheckID    int64
	URL        string
	Label      string
	Summary    string
	Severity   severity.Severity
	ChangeType domain.ChangeType
	Snippets   []diff.Snippet
	Highlights []summarizer.Highlight
	CheckedAt  time.Time
}

// DisplayName 返回链接展示名，未设置标签时取 URL 主机名
func (e ChangeEvent) DisplayName() string {
	if e.Label != "" {
		return e.Label
	}
	if u, err := url.Parse(e.URL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return e.URL
}

// topHighlights 渠道展示用的高亮条目，无高亮时从片段降级生成
func (e ChangeEvent) topHighlights(limit int) []summarizer.Highlight {
	highlights := e.Highlights
	if len(highlights) == 0 {
		for _, s := range e.Snippets {
			highlights = append(highlights, summarizer.Highlight{
				Title:   "Change detected",
				Snippet: s.Text,
				Context: s.Context,
			})
			if len(highlights) == 2 {
				break
			}
		}
	}
	if len(highlights) > limit {
		highlights = highlights[:limit]
	}
	return highlights
}

// NotifyService 定义通知分发服务接口
type NotifyService interface {
	// Dispatch 按告警配置分发变更通知
	// 低于阈值时静默跳过；每个渠道独立投递、互不影响，
	// 全部渠道结束后为每次尝试写入一条通知记录
	Dispatch(ctx context.Context, event ChangeEvent, settings domain.AlertSettings)

	// SendTest 发送预置的测试通知，不落通知记录
	SendTest(ctx context.Context, emailTo, slackWebhookURL string) (*dto.NotificationTestResultDTO, error)

	// ListByLink 获取链接的通知记录
	ListByLink(ctx context.Context, linkID int64) ([]*dto.NotificationDTO, error)
}

// notifyService 实现 NotifyService 接口
type notifyService struct {
	repo   domain.NotificationRepository
	mail   *MailServiceConfig
	client *http.Client
	logger *zap.Logger
}

// NewNotifyService 创建 NotifyService 实例
func NewNotifyService(repo domain.NotificationRepository, config *ServiceConfig, log *zap.Logger) NotifyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &notifyService{
		repo:   repo,
		mail:   &config.Mail,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: log,
	}
}

// sendOutcome 单个渠道的投递结果
type sendOutcome struct {
	channel domain.NotificationType
	err     error
}

// Dispatch 按告警配置分发变更通知
func (s *notifyService) Dispatch(ctx context.Context, event ChangeEvent, settings domain.AlertSettings) {
	if !event.Severity.Meets(settings.SeverityThreshold) {
		s.logger.Debug("change below alert threshold, notifications skipped",
			zap.Int64(logger.FieldLinkID, event.LinkID),
			zap.String(logger.FieldSeverity, event.Severity.String()))
		return
	}

	outcomes := s.deliver(ctx, event, settings)

	// 所有渠道结束后统一落记录，单渠道失败不影响其他渠道
	for _, outcome := range outcomes {
		record := &domain.Notification{
			LinkID:  event.LinkID,
			CheckID: event.CheckID,
			Type:    outcome.channel,
			Status:  domain.NotificationStatusSent,
			SentAt:  time.Now(),
		}
		if outcome.err != nil {
			record.Status = domain.NotificationStatusFailed
			record.Error = outcome.err.Error()
			s.logger.Warn("notification delivery failed",
				zap.Int64(logger.FieldLinkID, event.LinkID),
				zap.Int64(logger.FieldCheckID, event.CheckID),
				zap.String(logger.FieldChannel, string(outcome.channel)),
				zap.Error(outcome.err))
		} else {
			s.logger.Info("notification sent",
				zap.Int64(logger.FieldLinkID, event.LinkID),
				zap.Int64(logger.FieldCheckID, event.CheckID),
				zap.String(logger.FieldChannel, string(outcome.channel)))
		}
		if _, err := s.repo.Create(ctx, record); err != nil {
			s.logger.Error("save notification record failed",
				zap.Int64(logger.FieldCheckID, event.CheckID),
				zap.Error(err))
		}
	}
}

// deliver 并发投递所有启用的渠道，等待全部结束
func (s *notifyService) deliver(ctx context.Context, event ChangeEvent, settings domain.AlertSettings) []sendOutcome {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes []sendOutcome
	)

	attempt := func(channel domain.NotificationType, send func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			func() {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("%s delivery panic: %v", channel, r)
					}
				}()
				err = send()
			}()
			mu.Lock()
			outcomes = append(outcomes, sendOutcome{channel: channel, err: err})
			mu.Unlock()
		}()
	}

	if settings.EmailEnabled {
		if settings.EmailTo == "" {
			s.logger.Warn("email enabled but no recipient set, skipping",
				zap.Int64(logger.FieldLinkID, event.LinkID))
		} else {
			attempt(domain.NotificationTypeEmail, func() error {
				return s.sendEmail(event, settings.EmailTo)
			})
		}
	}

	if settings.SlackEnabled {
		if settings.SlackWebhookURL == "" {
			s.logger.Warn("slack enabled but no webhook url set, skipping",
				zap.Int64(logger.FieldLinkID, event.LinkID))
		} else {
			attempt(domain.NotificationTypeSlack, func() error {
				return s.sendSlack(ctx, event, settings.SlackWebhookURL)
			})
		}
	}

	wg.Wait()
	return outcomes
}

// SendTest 发送预置的测试通知
func (s *notifyService) SendTest(ctx context.Context, emailTo, slackWebhookURL string) (*dto.NotificationTestResultDTO, error) {
	if emailTo == "" && slackWebhookURL == "" {
		return nil, code.ErrorNotifyNoChannel
	}

	event := ChangeEvent{
		URL:        "https://example.com/pricing",
		Label:      "Test Link",
		Summary:    "This is a test notification from LinkWatcher.",
		Severity:   severity.Major,
		ChangeType: domain.ChangeTypeModified,
		Snippets: []diff.Snippet{
			{Text: "Price changed from $49 to $39", Context: "Pricing section"},
		},
		Highlights: []summarizer.Highlight{
			{Title: "Price Drop", Snippet: "Price changed from $49 to $39", Context: "Pricing section"},
		},
		CheckedAt: time.Now(),
	}
	settings := domain.AlertSettings{
		EmailEnabled:      emailTo != "",
		EmailTo:           emailTo,
		SlackEnabled:      slackWebhookURL != "",
		SlackWebhookURL:   slackWebhookURL,
		SeverityThreshold: severity.Minor,
	}

	result := &dto.NotificationTestResultDTO{}
	for _, outcome := range s.deliver(ctx, event, settings) {
		status := string(domain.NotificationStatusSent)
		if outcome.err != nil {
			status = fmt.Sprintf("%s: %s", domain.NotificationStatusFailed, outcome.err.Error())
		}
		switch outcome.channel {
		case domain.NotificationTypeEmail:
			result.Email = status
		case domain.NotificationTypeSlack:
			result.Slack = status
		}
	}
	return result, nil
}

// ListByLink 获取链接的通知记录
func (s *notifyService) ListByLink(ctx context.Context, linkID int64) ([]*dto.NotificationDTO, error) {
	records, err := s.repo.ListByLink(ctx, linkID)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	var out []*dto.NotificationDTO
	for _, r := range records {
		out = append(out, dto.NewNotificationDTO(r))
	}
	return out, nil
}

// sendEmail 通过 SMTP 发送告警邮件
func (s *notifyService) sendEmail(event ChangeEvent, to string) error {
	if s.mail.Host == "" {
		return fmt.Errorf("mail is not configured")
	}

	subject := fmt.Sprintf("[%s] Change detected on %s",
		strings.ToUpper(event.Severity.String()), event.DisplayName())

	m := gomail.NewMessage()
	m.SetHeader("From", s.mail.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", buildEmailHTML(event))

	d := gomail.NewDialer(s.mail.Host, s.mail.Port, s.mail.Username, s.mail.Password)
	return d.DialAndSend(m)
}

// buildEmailHTML 渲染告警邮件正文
func buildEmailHTML(event ChangeEvent) string {
	color := severityColors[event.Severity]
	emoji := severityEmojis[event.Severity]

	var rows strings.Builder
	for _, h := range event.topHighlights(3) {
		rows.WriteString(fmt.Sprintf(`
    <tr>
      <td style="padding:10px 0;border-bottom:1px solid #222;">
        <div style="font-size:11px;color:#888;text-transform:uppercase;letter-spacing:0.06em;margin-bottom:4px;">%s</div>
        <div style="font-size:13px;color:#e8e8e8;font-family:monospace;">&quot;%s&quot;</div>
      </td>
    </tr>`, html.EscapeString(h.Context), html.EscapeString(h.Snippet)))
	}

	snippetSection := ""
	if rows.Len() > 0 {
		snippetSection = fmt.Sprintf(`
        <tr>
          <td style="padding:20px 28px;border-bottom:1px solid #222;">
            <div style="font-size:11px;color:#555;letter-spacing:0.06em;margin-bottom:8px;">KEY CHANGES</div>
            <table width="100%%" cellpadding="0" cellspacing="0">%s</table>
          </td>
        </tr>`, rows.String())
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1"></head>
<body style="margin:0;padding:0;background:#0a0a0a;font-family:'DM Mono',monospace,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background:#0a0a0a;padding:40px 20px;">
    <tr><td align="center">
      <table width="600" cellpadding="0" cellspacing="0" style="background:#111;border:1px solid #222;border-radius:6px;overflow:hidden;">
        <tr>
          <td style="padding:20px 28px;border-bottom:1px solid #222;background:#0d0d0d;">
            <span style="font-size:18px;font-weight:800;color:#c8ff00;letter-spacing:-0.03em;">LINK<span style="color:#e8e8e8;">WATCHER</span></span>
            <span style="font-size:10px;color:#555;margin-left:10px;letter-spacing:0.08em;">PAGE CHANGE ALERT</span>
          </td>
        </tr>
        <tr>
          <td style="padding:14px 28px;background:%[1]s18;border-bottom:1px solid %[1]s44;">
            <span style="font-size:11px;font-weight:700;color:%[1]s;letter-spacing:0.1em;text-transform:uppercase;">%[2]s %[3]s change detected</span>
          </td>
        </tr>
        <tr>
          <td style="padding:20px 28px;border-bottom:1px solid #222;">
            <div style="font-size:11px;color:#555;letter-spacing:0.06em;margin-bottom:4px;">MONITORED PAGE</div>
            <div style="font-size:15px;font-weight:700;color:#e8e8e8;margin-bottom:6px;">%[4]s</div>
            <a href="%[5]s" style="font-size:12px;color:#555;text-decoration:none;">%[5]s</a>
          </td>
        </tr>
        <tr>
          <td style="padding:20px 28px;border-bottom:1px solid #222;">
            <div style="font-size:11px;color:#555;letter-spacing:0.06em;margin-bottom:8px;">SUMMARY</div>
            <div style="font-size:13px;color:#e8e8e8;line-height:1.6;">%[6]s</div>
          </td>
        </tr>%[7]s
        <tr>
          <td style="padding:20px 28px;">
            <a href="%[5]s" target="_blank" style="display:inline-block;padding:10px 20px;background:#c8ff00;color:#0a0a0a;font-size:12px;font-weight:700;text-decoration:none;border-radius:3px;letter-spacing:0.06em;text-transform:uppercase;">View Page →</a>
          </td>
        </tr>
        <tr>
          <td style="padding:14px 28px;background:#0d0d0d;border-top:1px solid #222;">
            <span style="font-size:10px;color:#333;letter-spacing:0.06em;">Sent by LinkWatcher · You are receiving this because this page is being monitored.</span>
          </td>
        </tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`,
		color,
		emoji,
		event.Severity.String(),
		html.EscapeString(event.DisplayName()),
		html.EscapeString(event.URL),
		html.EscapeString(event.Summary),
		snippetSection,
	)
}

// sendSlack 通过 Incoming Webhook 发送 Slack 告警
func (s *notifyService) sendSlack(ctx context.Context, event ChangeEvent, webhookURL string) error {
	payload, err := json.Marshal(buildSlackBody(event))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// buildSlackBody 构造 Slack Blocks 消息
func buildSlackBody(event ChangeEvent) map[string]any {
	blocks := []map[string]any{
		{
			"type": "header",
			"text": map[string]any{
				"type": "plain_text",
				"text": fmt.Sprintf("%s %s change — %s",
					severityEmojis[event.Severity],
					strings.ToUpper(event.Severity.String()),
					event.DisplayName()),
			},
		},
		{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": event.Summary},
		},
		{
			"type": "section",
			"fields": []map[string]any{
				{"type": "mrkdwn", "text": fmt.Sprintf("*URL:*\n<%s|%s>", event.URL, event.URL)},
				{"type": "mrkdwn", "text": fmt.Sprintf("*Severity:*\n%s", event.Severity.String())},
			},
		},
	}

	if highlights := event.topHighlights(2); len(highlights) > 0 {
		var parts []string
		for _, h := range highlights {
			parts = append(parts, fmt.Sprintf("*%s*\n_\"%s\"_", h.Context, h.Snippet))
		}
		blocks = append(blocks,
			map[string]any{"type": "divider"},
			map[string]any{
				"type": "section",
				"text": map[string]any{"type": "mrkdwn", "text": strings.Join(parts, "\n\n")},
			},
		)
	}

	blocks = append(blocks, map[string]any{
		"type": "actions",
		"elements": []map[string]any{
			{
				"type":  "button",
				"text":  map[string]any{"type": "plain_text", "text": "View Page"},
				"url":   event.URL,
				"style": "primary",
			},
		},
	})

	return map[string]any{
		"attachments": []map[string]any{
			{
				"color":  severityColors[event.Severity],
				"blocks": blocks,
			},
		},
	}
}
