// summary/summarizer.go

// Package summary generates short article summaries through the OpenAI chat
// completions API. It is a standalone collaborator of the blog API and never
// touches the post store. Without an API key configured it returns a canned
// demonstration summary so the feature is usable out of the box.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

// maxPromptContent bounds how much article text is sent to the model.
const maxPromptContent = 2000

// Result is the wire shape returned by the summarize endpoint.
type Result struct {
	Summary string `json:"summary"`
	Model   string `json:"model"`
	Note    string `json:"note,omitempty"`
	Usage   *Usage `json:"usage,omitempty"`
}

// Usage mirrors the token accounting OpenAI reports per completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Summarizer produces a short summary for an article.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (*Result, error)
}

type openaiSummarizer struct {
	apiKey string
	client *http.Client
	apiURL string
	logger zerolog.Logger
}

// NewSummarizer creates a summarizer backed by the OpenAI API. An empty
// apiKey switches it to canned-summary mode.
func NewSummarizer(apiKey string, logger zerolog.Logger) Summarizer {
	return &openaiSummarizer{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: defaultAPIURL,
		logger: logger.With().Str("component", "summary").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

func (s *openaiSummarizer) Summarize(ctx context.Context, title, content string) (*Result, error) {
	if title == "" {
		title = "技术文章"
	}

	if s.apiKey == "" {
		s.logger.Debug().Msg("no API key configured, returning canned summary")
		return &Result{
			Summary: fmt.Sprintf("这是一篇关于「%s」的文章。文章内容涉及技术实践与最佳实践，适合在项目中直接应用。", title),
			Model:   "模拟模式（未配置 OPENAI_API_KEY）",
			Note:    "配置 OPENAI_API_KEY 环境变量后可使用真实的 AI 摘要生成功能。",
		}, nil
	}

	reqBody := chatRequest{
		Model: "gpt-3.5-turbo",
		Messages: []chatMessage{
			{Role: "system", Content: "你是一个专业的技术博客摘要生成助手，擅长提取文章的核心观点。"},
			{Role: "user", Content: buildPrompt(title, content)},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	s.logger.Debug().Str("model", reqBody.Model).Int("content_length", len(content)).
		Msg("requesting summary")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call completion API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion API returned %d: %s", resp.StatusCode, body)
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	summaryText := "生成摘要失败"
	if len(completion.Choices) > 0 && completion.Choices[0].Message.Content != "" {
		summaryText = completion.Choices[0].Message.Content
	}

	return &Result{
		Summary: summaryText,
		Model:   completion.Model,
		Usage:   completion.Usage,
	}, nil
}

func buildPrompt(title, content string) string {
	runes := []rune(content)
	truncated := ""
	if len(runes) > maxPromptContent {
		runes = runes[:maxPromptContent]
		truncated = "..."
	}

	return fmt.Sprintf(`请为以下技术博客文章生成一段简洁的中文摘要（2-4句话），突出核心观点和适用场景。

标题：%s

正文：
%s%s

请直接输出摘要，不要重复标题。`, title, string(runes), truncated)
}
