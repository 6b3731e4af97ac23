package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yerasnetwork/course-registration/internal/dto"
	"github.com/yerasnetwork/course-registration/internal/service"
	"github.com/yerasnetwork/course-registration/pkg/response"
)

// ChatHandler 课程助手 HTTP 处理器
// 下游失败由服务层降级为固定回复，接口恒返回 200
type ChatHandler struct {
	chatSvc service.ChatService
}

// NewChatHandler 创建 ChatHandler
func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// Ask 向课程助手提问
// POST /api/v1/chat
func (h *ChatHandler) Ask(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	response.OK(c, h.chatSvc.Ask(c.Request.Context(), req.Message))
}
