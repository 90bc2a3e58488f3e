package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/link-watcher-service/pkg/diff"
	"github.com/haierkeys/link-watcher-service/pkg/severity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiResponse(text string) string {
	// generateContent 响应外层结构
	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	return string(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{Endpoint: srv.URL, Model: "test-model", APIKey: "test-key", Timeout: 2}, nil)
}

func TestSummarize_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(geminiResponse(`{"summary":"Price dropped from $49 to $39.","highlights":[{"title":"Price Drop","snippet":"$49 → $39","context":"Pricing section"}],"severity":"major"}`)))
	})

	result := client.Summarize(context.Background(), Request{
		URL:       "https://example.com/pricing",
		CheckedAt: "2026-01-01T00:00:00Z",
		Snippets:  []diff.Snippet{{Text: "$39", Context: "Added: ...Price: → /mo..."}},
	})

	assert.Equal(t, "Price dropped from $49 to $39.", result.Summary)
	assert.Equal(t, severity.Major, result.Severity)
	require.Len(t, result.Highlights, 1)
	assert.Equal(t, "Price Drop", result.Highlights[0].Title)
}

func TestSummarize_StripsMarkdownFences(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiResponse("```json\n{\"summary\":\"ok\",\"highlights\":[],\"severity\":\"moderate\"}\n```")))
	})

	result := client.Summarize(context.Background(), Request{URL: "https://example.com"})
	assert.Equal(t, "ok", result.Summary)
	assert.Equal(t, severity.Moderate, result.Severity)
}

func TestSummarize_FallbackWhenUnconfigured(t *testing.T) {
	client := NewClient(Config{Endpoint: "https://example.invalid", Model: "m", APIKey: ""}, nil)
	result := client.Summarize(context.Background(), Request{URL: "https://example.com"})
	assert.Equal(t, Fallback(), result)
}

func TestSummarize_FallbackOnHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	result := client.Summarize(context.Background(), Request{URL: "https://example.com"})
	assert.Equal(t, Fallback(), result)
}

func TestSummarize_FallbackOnMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiResponse("I think the page changed quite a bit!")))
	})

	result := client.Summarize(context.Background(), Request{URL: "https://example.com"})
	assert.Equal(t, Fallback(), result)
}

func TestSummarize_FallbackOnInvalidShape(t *testing.T) {
	// 合法 JSON 但结构不合规：空摘要 / 非法级别
	for _, text := range []string{
		`{"summary":"","highlights":[],"severity":"minor"}`,
		`{"summary":"something","highlights":[],"severity":"catastrophic"}`,
	} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(geminiResponse(text)))
		})
		result := client.Summarize(context.Background(), Request{URL: "https://example.com"})
		assert.Equal(t, Fallback(), result, "text=%s", text)
	}
}

func TestSummarize_FallbackOnTransportFailure(t *testing.T) {
	client := NewClient(Config{Endpoint: "http://127.0.0.1:1", Model: "m", APIKey: "k", Timeout: 1}, nil)
	result := client.Summarize(context.Background(), Request{URL: "https://example.com"})
	assert.Equal(t, Fallback(), result)
}

func TestFallback_Shape(t *testing.T) {
	f := Fallback()
	assert.Equal(t, FallbackSummary, f.Summary)
	assert.Empty(t, f.Highlights)
	assert.Equal(t, severity.Minor, f.Severity)
}
