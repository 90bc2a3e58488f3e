// Package summarizer 封装远端语义摘要服务（Gemini generateContent 兼容接口）
// 该组件尽力而为：服务不可用、未配置或返回不合法结构时一律降级为固定回退值，
// 任何传输或解析失败都不会向上抛出
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/haierkeys/link-watcher-service/pkg/diff"
	"github.com/haierkeys/link-watcher-service/pkg/severity"

	"go.uber.org/zap"
)

// FallbackSummary 回退摘要文案
const FallbackSummary = "No meaningful content changes detected."

// Config 摘要服务配置
type Config struct {
	// Endpoint API 基地址
	Endpoint string
	// Model 模型名称
	Model string
	// APIKey 为空时视为未配置，始终走回退
	APIKey string
	// Timeout 请求超时（秒），默认 15
	Timeout int
}

// Request 摘要请求
type Request struct {
	URL         string         `json:"url"`
	CheckedAt   string         `json:"checkedAt"`
	Snippets    []diff.Snippet `json:"snippets"`
	DiffSummary string         `json:"diffSummary,omitempty"`
}

// Highlight 一处值得注意的变更：标题 + 摘录 + 页面位置说明
type Highlight struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Context string `json:"context"`
}

// Result 摘要结果
type Result struct {
	Summary    string            `json:"summary"`
	Highlights []Highlight       `json:"highlights"`
	Severity   severity.Severity `json:"-"`
	// SeverityLabel 原始级别字符串，序列化用
	SeverityLabel string `json:"severity"`
}

// Fallback 固定回退结果
func Fallback() Result {
	return Result{
		Summary:       FallbackSummary,
		Highlights:    []Highlight{},
		Severity:      severity.Minor,
		SeverityLabel: severity.Minor.String(),
	}
}

// Client 摘要服务客户端
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient 创建摘要客户端
// logger 为 nil 时使用 nop logger
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

// Enabled 是否配置了可用的远端服务
func (c *Client) Enabled() bool {
	return c.config.APIKey != "" && c.config.Endpoint != ""
}

// Summarize 请求远端服务生成摘要、高亮与级别判断
// 永不返回错误：所有失败路径均降级为 Fallback()
func (c *Client) Summarize(ctx context.Context, req Request) Result {
	if !c.Enabled() {
		c.logger.Warn("summarizer not configured, returning fallback summary")
		return Fallback()
	}

	raw, err := c.generate(ctx, buildPrompt(req))
	if err != nil {
		c.logger.Error("summarizer request failed, returning fallback", zap.Error(err))
		return Fallback()
	}

	result, err := parseResult(raw)
	if err != nil {
		c.logger.Error("summarizer returned malformed result, returning fallback",
			zap.Error(err), zap.String("raw", truncate(raw, 200)))
		return Fallback()
	}
	return result
}

// Ping 探测远端服务可达性，返回耗时
// 用于健康检查，不产生模型调用
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if !c.Enabled() {
		return 0, fmt.Errorf("summarizer: api key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/models?key=%s", strings.TrimRight(c.config.Endpoint, "/"), c.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return time.Since(start), err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return time.Since(start), err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 100))
		return time.Since(start), fmt.Errorf("summarizer ping: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return time.Since(start), nil
}

// generate 调用 generateContent 接口，返回模型输出的原始文本
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.1,
			"maxOutputTokens": 512,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("summarizer encode: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.config.Endpoint, "/"), c.config.Model, c.config.APIKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("summarizer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("summarizer call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("summarizer read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("summarizer: HTTP %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var decoded struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("summarizer decode: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("summarizer: empty candidates")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// parseResult 解析并校验模型输出
// 剥掉可能存在的 markdown 代码围栏后按固定形状解码，
// 摘要为空或级别非法都视为结构不合法
func parseResult(raw string) (Result, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var parsed struct {
		Summary    string      `json:"summary"`
		Highlights []Highlight `json:"highlights"`
		Severity   string      `json:"severity"`
	}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return Result{}, fmt.Errorf("summarizer parse: %w", err)
	}

	if strings.TrimSpace(parsed.Summary) == "" {
		return Result{}, fmt.Errorf("summarizer parse: empty summary")
	}
	sev, ok := severity.Parse(parsed.Severity)
	if !ok {
		return Result{}, fmt.Errorf("summarizer parse: invalid severity %q", parsed.Severity)
	}

	highlights := parsed.Highlights
	if highlights == nil {
		highlights = []Highlight{}
	}

	return Result{
		Summary:       strings.TrimSpace(parsed.Summary),
		Highlights:    highlights,
		Severity:      sev,
		SeverityLabel: sev.String(),
	}, nil
}

// buildPrompt 构造提示词，要求模型只输出固定形状的 JSON
func buildPrompt(req Request) string {
	snippets, _ := json.MarshalIndent(req.Snippets, "", "  ")

	var sb strings.Builder
	sb.WriteString("You are a concise change summarizer. Output MUST be valid JSON only. No markdown, no extra text.\n\n")
	sb.WriteString("Given:\n")
	sb.WriteString("- url: " + req.URL + "\n")
	sb.WriteString("- checkedAt: " + req.CheckedAt + "\n")
	sb.WriteString("- snippets: " + string(snippets) + "\n")
	sb.WriteString("- diffSummary: " + req.DiffSummary + "\n\n")
	sb.WriteString(`Produce JSON in exactly this shape:
{
  "summary": "<1-2 sentence summary of the main change>",
  "highlights": [
    {"title": "short title", "snippet": "<=80 chars", "context": "where on page"}
  ],
  "severity": "minor|moderate|major"
}

Rules:
- If changes are trivial (whitespace, date roll-over), return summary "` + FallbackSummary + `" and severity "minor".
- When in doubt pick "moderate".
- highlights array can be empty if nothing notable.
- Output strictly valid JSON only. No commentary, no markdown fences.`)
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
