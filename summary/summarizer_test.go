// summary/summarizer_test.go
package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSummarizer(apiKey, apiURL string) *openaiSummarizer {
	return &openaiSummarizer{
		apiKey: apiKey,
		client: &http.Client{Timeout: 5 * time.Second},
		apiURL: apiURL,
		logger: zerolog.Nop(),
	}
}

func TestSummarizeWithoutKeyReturnsCannedResult(t *testing.T) {
	s := NewSummarizer("", zerolog.Nop())

	res, err := s.Summarize(context.Background(), "我的标题", "正文内容")
	require.NoError(t, err)

	assert.Contains(t, res.Summary, "「我的标题」")
	assert.Contains(t, res.Model, "模拟模式")
	assert.NotEmpty(t, res.Note)
	assert.Nil(t, res.Usage)
}

func TestSummarizeWithoutKeyDefaultsTitle(t *testing.T) {
	s := NewSummarizer("", zerolog.Nop())

	res, err := s.Summarize(context.Background(), "", "正文内容")
	require.NoError(t, err)
	assert.Contains(t, res.Summary, "「技术文章」")
}

func TestSummarizeCallsCompletionAPI(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-3.5-turbo-0125",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "一段摘要。"}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	defer ts.Close()

	s := newTestSummarizer("sk-test", ts.URL)
	res, err := s.Summarize(context.Background(), "标题", "正文")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-3.5-turbo", gotReq.Model)
	assert.Equal(t, 200, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "标题：标题")

	assert.Equal(t, "一段摘要。", res.Summary)
	assert.Equal(t, "gpt-3.5-turbo-0125", res.Model)
	require.NotNil(t, res.Usage)
	assert.Equal(t, 15, res.Usage.TotalTokens)
}

func TestSummarizeAPIFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	s := newTestSummarizer("sk-test", ts.URL)
	_, err := s.Summarize(context.Background(), "标题", "正文")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSummarizeEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"model": "gpt-3.5-turbo", "choices": []any{}})
	}))
	defer ts.Close()

	s := newTestSummarizer("sk-test", ts.URL)
	res, err := s.Summarize(context.Background(), "标题", "正文")
	require.NoError(t, err)
	assert.Equal(t, "生成摘要失败", res.Summary)
}

func TestBuildPromptTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("长", maxPromptContent+100)
	prompt := buildPrompt("标题", long)

	assert.Contains(t, prompt, "...")
	assert.Less(t, len([]rune(prompt)), maxPromptContent+200)

	short := buildPrompt("标题", "短正文")
	assert.NotContains(t, short, "短正文...")
	assert.Contains(t, short, "短正文")
}
