// Package ai 生成式模型客户端
package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// Generator 根据提示词生成文本
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// generateFunc 便于测试替换真实调用
type generateFunc func(ctx context.Context, model, prompt string) (string, error)

// Gemini 通过熔断器调用Gemini
//
// 错误统一转换为 ErrAIQuotaExceeded(429) 或 ErrAIUnavailable。
type Gemini struct {
	model    string
	timeout  time.Duration
	generate generateFunc
	breaker  *circuitbreaker.CircuitBreaker
	logger   *zap.Logger
}

// NewGemini 创建客户端
func NewGemini(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "创建Gemini客户端失败")
	}

	call := func(ctx context.Context, model, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return newGemini(cfg, call, logger), nil
}

func newGemini(cfg config.AIConfig, call generateFunc, logger *zap.Logger) *Gemini {
	breaker := circuitbreaker.NewCircuitBreaker("gemini", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// 客户端取消不算下游故障
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	breaker.OnStateChange(func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化", zap.String("name", name), zap.Stringer("from", from), zap.Stringer("to", to))
	})

	return &Gemini{
		model:    cfg.Model,
		timeout:  cfg.Timeout,
		generate: call,
		breaker:  breaker,
		logger:   logger,
	}
}

// Generate 调用模型
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := g.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		if g.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		out, err := g.generate(ctx, g.model, prompt)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(out)
		return nil
	})
	if err != nil {
		g.logger.Warn("AI调用失败", zap.String("model", g.model), zap.Error(err))
		return "", classify(err)
	}
	if text == "" {
		return "", apperrors.ErrAIUnavailable.WithCause(errors.New("empty response"))
	}
	return text, nil
}

// classify 429/RESOURCE_EXHAUSTED 归为额度用尽,其余为服务不可用
func classify(err error) error {
	if isQuotaError(err) {
		return apperrors.ErrAIQuotaExceeded.WithCause(err)
	}
	return apperrors.ErrAIUnavailable.WithCause(err)
}

func isQuotaError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == "RESOURCE_EXHAUSTED"
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(strings.ToLower(msg), "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// Disabled 未配置API Key时使用
type Disabled struct{}

// Generate 总是返回服务不可用
func (Disabled) Generate(context.Context, string) (string, error) {
	return "", apperrors.ErrAIUnavailable
}
