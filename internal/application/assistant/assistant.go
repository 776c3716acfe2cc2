// Package assistant AI导购:图书简介、阅读路线、聊天问答
//
// 路线和聊天会把当前目录放进提示词,模型只应推荐店里有的书。
package assistant

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/ai"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 聊天失败时直接回复给用户的兜底文案
const (
	QuotaExceededReply = "AI quota exceeded for today. The daily limit has been reached. Please try again tomorrow!"
	UnavailableReply   = "Sorry, AI is temporarily unavailable. Please try again shortly!"
)

// SummaryUseCase 图书简介
type SummaryUseCase struct {
	generator ai.Generator
}

// NewSummaryUseCase 创建用例
func NewSummaryUseCase(generator ai.Generator) *SummaryUseCase {
	return &SummaryUseCase{generator: generator}
}

// SummaryRequest 简介请求
type SummaryRequest struct {
	Title  string
	Author string
}

// SummaryResponse 简介
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// Execute 额度用尽返回ErrAIQuotaExceeded,其它失败返回ErrAIUnavailable
func (uc *SummaryUseCase) Execute(ctx context.Context, req SummaryRequest) (*SummaryResponse, error) {
	title, author := strings.TrimSpace(req.Title), strings.TrimSpace(req.Author)
	if title == "" || author == "" {
		return nil, apperrors.InvalidParams("书名和作者不能为空")
	}

	text, err := uc.generator.Generate(ctx, summaryPrompt(title, author))
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{Summary: text}, nil
}

// RoadmapUseCase 阅读路线
type RoadmapUseCase struct {
	generator ai.Generator
	bookRepo  book.Repository
}

// NewRoadmapUseCase 创建用例
func NewRoadmapUseCase(generator ai.Generator, bookRepo book.Repository) *RoadmapUseCase {
	return &RoadmapUseCase{generator: generator, bookRepo: bookRepo}
}

// RoadmapResponse 阅读路线
type RoadmapResponse struct {
	Roadmap string `json:"roadmap"`
}

// Execute 生成5-7个阶段的阅读路线
func (uc *RoadmapUseCase) Execute(ctx context.Context, goal string) (*RoadmapResponse, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, apperrors.InvalidParams("学习目标不能为空")
	}

	books, err := catalog(ctx, uc.bookRepo)
	if err != nil {
		return nil, err
	}

	text, err := uc.generator.Generate(ctx, roadmapPrompt(goal, books))
	if err != nil {
		return nil, err
	}
	return &RoadmapResponse{Roadmap: text}, nil
}

// ChatUseCase 聊天导购
//
// AI失败时不报错,回复里给出兜底文案。
type ChatUseCase struct {
	generator ai.Generator
	bookRepo  book.Repository
	logger    *zap.Logger
}

// NewChatUseCase 创建用例
func NewChatUseCase(generator ai.Generator, bookRepo book.Repository, logger *zap.Logger) *ChatUseCase {
	return &ChatUseCase{generator: generator, bookRepo: bookRepo, logger: logger}
}

// ChatResponse 回复
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Execute 回答用户问题
func (uc *ChatUseCase) Execute(ctx context.Context, message string) (*ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.InvalidParams("消息不能为空")
	}

	books, err := catalog(ctx, uc.bookRepo)
	if err != nil {
		return nil, err
	}

	text, err := uc.generator.Generate(ctx, chatPrompt(message, books))
	switch {
	case err == nil:
		return &ChatResponse{Reply: text}, nil
	case apperrors.HasCode(err, apperrors.ErrCodeAIQuotaExceeded):
		return &ChatResponse{Reply: QuotaExceededReply}, nil
	case apperrors.HasCode(err, apperrors.ErrCodeAIUnavailable):
		uc.logger.Warn("聊天降级", zap.Error(err))
		return &ChatResponse{Reply: UnavailableReply}, nil
	default:
		return nil, err
	}
}

// catalog 全部在售图书
func catalog(ctx context.Context, repo book.Repository) ([]*book.Book, error) {
	books, _, err := repo.List(ctx, book.ListParams{PageSize: 0})
	return books, err
}
