package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// FetchError 抓取失败的类型化错误，携带 HTTP 状态码和响应摘录
type FetchError struct {
	URL        string
	StatusCode int
	Excerpt    string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s failed: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher 页面抓取器
// 超时和正文上限由配置决定，正文超限时截断而不是报错
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxChars  int
	logger    *zap.Logger
}

// NewFetcher 创建抓取器
func NewFetcher(cfg *MonitorServiceConfig, logger *zap.Logger) *Fetcher {
	timeout := time.Duration(cfg.FetchTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxChars := cfg.MaxFetchChars
	if maxChars <= 0 {
		maxChars = 200000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		maxChars:  maxChars,
		logger:    logger,
	}
}

// Fetch 抓取页面原始 HTML
// 非 2xx 状态码与网络错误都返回 *FetchError
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	// 上限按字符计，UTF-8 单字符最多 4 字节，读满后再按字符截断
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.maxChars)*4+1))
	if err != nil {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode,
			Excerpt: truncateRunes(string(body), 200)}
	}

	content := string(body)
	if truncated := truncateRunes(content, f.maxChars); len(truncated) < len(content) {
		content = truncated
		f.logger.Debug("fetched body truncated",
			zap.String("url", url), zap.Int("maxChars", f.maxChars))
	}

	f.logger.Debug("page fetched",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("chars", len(content)),
		zap.Duration("duration", time.Since(start)))

	return content, nil
}

// truncateRunes 按字符数截断，不会切断多字节字符
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
