package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// SetStockUseCase 管理员直接设置库存
//
// 直接覆盖,不和购物车中的预留对账。
type SetStockUseCase struct {
	bookRepo  book.Repository
	txManager domain.TxManager
	cache     book.ListCache
	logger    *zap.Logger
}

// NewSetStockUseCase 创建用例
func NewSetStockUseCase(bookRepo book.Repository, txManager domain.TxManager, cache book.ListCache, logger *zap.Logger) *SetStockUseCase {
	return &SetStockUseCase{
		bookRepo:  bookRepo,
		txManager: txManager,
		cache:     cache,
		logger:    logger,
	}
}

// SetStockRequest 设置库存请求
type SetStockRequest struct {
	BookID uint
	Stock  int
}

// Execute 库存为负返回ErrInvalidStock,图书不存在返回ErrBookNotFound
func (uc *SetStockUseCase) Execute(ctx context.Context, req SetStockRequest) (*BookInfo, error) {
	if req.Stock < 0 {
		return nil, book.ErrInvalidStock
	}

	var b *book.Book
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if b, err = uc.bookRepo.LockByID(ctx, req.BookID); err != nil {
			return err
		}
		if err := uc.bookRepo.SetStock(ctx, req.BookID, req.Stock); err != nil {
			return err
		}
		b, err = uc.bookRepo.FindByID(ctx, req.BookID)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordStockAdjustment("admin_set")

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("图书列表缓存失效失败", zap.Error(err))
	}

	info := toBookInfo(b)
	return &info, nil
}
