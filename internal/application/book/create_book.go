package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

// CreateBookUseCase 图书上架(管理员)
type CreateBookUseCase struct {
	bookRepo book.Repository
	cache    book.ListCache
	logger   *zap.Logger
}

// NewCreateBookUseCase 创建上架用例
func NewCreateBookUseCase(bookRepo book.Repository, cache book.ListCache, logger *zap.Logger) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookRepo: bookRepo,
		cache:    cache,
		logger:   logger,
	}
}

// CreateBookRequest 上架请求DTO
type CreateBookRequest struct {
	Title    string
	Author   string
	Price    int64 // 分
	Category string
	ImageURL string
	Stock    int // 初始库存
}

// Execute 执行上架
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookInfo, error) {
	b := book.NewBook(req.Title, req.Author, req.Category, req.ImageURL, req.Price, req.Stock)
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if err := uc.bookRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("图书列表缓存失效失败", zap.Error(err))
	}
	uc.logger.Info("图书已上架", zap.Uint("book_id", b.ID), zap.String("title", b.Title))

	info := toBookInfo(b)
	return &info, nil
}
