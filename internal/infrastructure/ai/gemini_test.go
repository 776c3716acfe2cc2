package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

func testConfig() config.AIConfig {
	return config.AIConfig{Model: "test-model", Timeout: time.Second, BreakerTimeout: time.Minute}
}

func TestGemini_Generate(t *testing.T) {
	var gotModel, gotPrompt string
	g := newGemini(testConfig(), func(ctx context.Context, model, prompt string) (string, error) {
		gotModel, gotPrompt = model, prompt
		return "  a short summary \n", nil
	}, zap.NewNop())

	text, err := g.Generate(context.Background(), "summarize Dune")
	require.NoError(t, err)
	assert.Equal(t, "a short summary", text)
	assert.Equal(t, "test-model", gotModel)
	assert.Equal(t, "summarize Dune", gotPrompt)
}

func TestGemini_ErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *apperrors.AppError
	}{
		{"APIError 429", genai.APIError{Code: 429, Message: "quota", Status: "RESOURCE_EXHAUSTED"}, apperrors.ErrAIQuotaExceeded},
		{"文本包含quota", errors.New("You exceeded your current quota"), apperrors.ErrAIQuotaExceeded},
		{"APIError 500", genai.APIError{Code: 500, Message: "internal", Status: "INTERNAL"}, apperrors.ErrAIUnavailable},
		{"网络错误", errors.New("dial tcp: connection refused"), apperrors.ErrAIUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGemini(testConfig(), func(context.Context, string, string) (string, error) {
				return "", tt.err
			}, zap.NewNop())

			_, err := g.Generate(context.Background(), "hi")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGemini_EmptyResponse(t *testing.T) {
	g := newGemini(testConfig(), func(context.Context, string, string) (string, error) {
		return "   ", nil
	}, zap.NewNop())

	_, err := g.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, apperrors.ErrAIUnavailable)
}

func TestGemini_BreakerOpens(t *testing.T) {
	calls := 0
	g := newGemini(testConfig(), func(context.Context, string, string) (string, error) {
		calls++
		return "", errors.New("upstream 503")
	}, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := g.Generate(context.Background(), "hi")
		assert.ErrorIs(t, err, apperrors.ErrAIUnavailable)
	}

	assert.Equal(t, 3, calls, "熔断后不再调用下游")
	assert.Equal(t, circuitbreaker.StateOpen, g.breaker.State())
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, apperrors.ErrAIUnavailable)
}
