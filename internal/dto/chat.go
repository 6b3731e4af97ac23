package dto

// ── 对话助手 ──

// ChatRequest 对话请求
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// ChatResponse 对话响应
// Fallback 为 true 表示下游服务失败，Reply 为兜底话术
type ChatResponse struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}
