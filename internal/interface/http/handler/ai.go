package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/internal/application/assistant"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// AIHandler AI助手
type AIHandler struct {
	summaryUseCase *assistant.SummaryUseCase
	roadmapUseCase *assistant.RoadmapUseCase
	chatUseCase    *assistant.ChatUseCase
}

// NewAIHandler 创建AI处理器
func NewAIHandler(
	summaryUseCase *assistant.SummaryUseCase,
	roadmapUseCase *assistant.RoadmapUseCase,
	chatUseCase *assistant.ChatUseCase,
) *AIHandler {
	return &AIHandler{
		summaryUseCase: summaryUseCase,
		roadmapUseCase: roadmapUseCase,
		chatUseCase:    chatUseCase,
	}
}

// Summary 图书简介
// @Summary      生成图书简介
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        request body dto.SummaryRequest true "书名与作者"
// @Success      200 {object} response.Response{data=assistant.SummaryResponse}
// @Failure      200 {object} response.Response "42901 额度用尽 / 50300 服务不可用"
// @Router       /api/v1/ai/summary [post]
func (h *AIHandler) Summary(c *gin.Context) {
	var req dto.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.summaryUseCase.Execute(c.Request.Context(), assistant.SummaryRequest{
		Title:  req.Title,
		Author: req.Author,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Roadmap 学习路线
// @Summary      按目标推荐阅读路线
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        request body dto.RoadmapRequest true "学习目标"
// @Success      200 {object} response.Response{data=assistant.RoadmapResponse}
// @Router       /api/v1/ai/roadmap [post]
func (h *AIHandler) Roadmap(c *gin.Context) {
	var req dto.RoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.roadmapUseCase.Execute(c.Request.Context(), req.Goal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Chat 选书助手
// @Summary      选书助手对话
// @Description  AI不可用时在reply中返回提示语
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        request body dto.ChatRequest true "消息"
// @Success      200 {object} response.Response{data=assistant.ChatResponse}
// @Router       /api/v1/ai/chat [post]
func (h *AIHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.chatUseCase.Execute(c.Request.Context(), req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
