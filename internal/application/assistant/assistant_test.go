package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/infrastructure/ai"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// stubGenerator 记录提示词并返回固定结果
type stubGenerator struct {
	prompt string
	reply  string
	err    error
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

func seedCatalog(t *testing.T) book.Repository {
	t.Helper()
	repos := memory.NewRepositories(memory.New())
	ctx := context.Background()
	require.NoError(t, repos.Books.Create(ctx, book.NewBook("Dune", "Frank Herbert", "SciFi", "", 4590, 3)))
	require.NoError(t, repos.Books.Create(ctx, book.NewBook("Emma", "Jane Austen", "Classic", "", 1200, 0)))
	return repos.Books
}

func TestSummary(t *testing.T) {
	gen := &stubGenerator{reply: "A desert planet epic."}
	uc := NewSummaryUseCase(gen)

	resp, err := uc.Execute(context.Background(), SummaryRequest{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.Equal(t, "A desert planet epic.", resp.Summary)
	assert.Contains(t, gen.prompt, `"Dune" by Frank Herbert`)

	_, err = uc.Execute(context.Background(), SummaryRequest{Title: "Dune"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
}

func TestSummary_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "额度用尽", err: apperrors.ErrAIQuotaExceeded, want: apperrors.ErrAIQuotaExceeded},
		{name: "服务不可用", err: apperrors.ErrAIUnavailable.WithCause(errors.New("503")), want: apperrors.ErrAIUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewSummaryUseCase(&stubGenerator{err: tt.err})
			_, err := uc.Execute(context.Background(), SummaryRequest{Title: "Dune", Author: "Frank Herbert"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRoadmap_IncludesCatalog(t *testing.T) {
	gen := &stubGenerator{reply: "1. Start with Dune"}
	uc := NewRoadmapUseCase(gen, seedCatalog(t))

	resp, err := uc.Execute(context.Background(), "learn science fiction")
	require.NoError(t, err)
	assert.Equal(t, "1. Start with Dune", resp.Roadmap)
	assert.Contains(t, gen.prompt, `"Dune" by Frank Herbert (SciFi)`)
	assert.Contains(t, gen.prompt, `"Emma" by Jane Austen (Classic)`)
	assert.Contains(t, gen.prompt, "[AVAILABLE IN OUR STORE]")

	_, err = uc.Execute(context.Background(), "  ")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
}

func TestRoadmap_EmptyCatalog(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	uc := NewRoadmapUseCase(gen, memory.NewRepositories(memory.New()).Books)

	_, err := uc.Execute(context.Background(), "learn Go")
	require.NoError(t, err)
	assert.Contains(t, gen.prompt, emptyCatalog)
}

func TestChat(t *testing.T) {
	books := seedCatalog(t)

	t.Run("目录带价格和库存", func(t *testing.T) {
		gen := &stubGenerator{reply: "Dune has 3 copies left."}
		resp, err := NewChatUseCase(gen, books, zap.NewNop()).Execute(context.Background(), "Is Dune in stock?")
		require.NoError(t, err)
		assert.Equal(t, "Dune has 3 copies left.", resp.Reply)
		assert.Contains(t, gen.prompt, "Price: ¥45.90 | Stock: 3 copies available")
		assert.Contains(t, gen.prompt, `"Emma" by Jane Austen | Category: Classic | Price: ¥12.00 | Stock: OUT OF STOCK`)
		assert.Contains(t, gen.prompt, `"Is Dune in stock?"`)
	})

	t.Run("额度用尽兜底", func(t *testing.T) {
		gen := &stubGenerator{err: apperrors.ErrAIQuotaExceeded}
		resp, err := NewChatUseCase(gen, books, zap.NewNop()).Execute(context.Background(), "hi")
		require.NoError(t, err)
		assert.Equal(t, QuotaExceededReply, resp.Reply)
	})

	t.Run("未配置AI兜底", func(t *testing.T) {
		resp, err := NewChatUseCase(ai.Disabled{}, books, zap.NewNop()).Execute(context.Background(), "hi")
		require.NoError(t, err)
		assert.Equal(t, UnavailableReply, resp.Reply)
	})

	t.Run("空消息", func(t *testing.T) {
		_, err := NewChatUseCase(&stubGenerator{}, books, zap.NewNop()).Execute(context.Background(), "")
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
	})
}
