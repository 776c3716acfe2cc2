package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/cart"
)

// DeleteBookUseCase 图书下架(管理员)
//
// 引用该书的购物车行在同一事务中删除,预留随图书一起消失;已有订单保留快照不受影响。
type DeleteBookUseCase struct {
	bookRepo  book.Repository
	cartRepo  cart.Repository
	txManager domain.TxManager
	cache     book.ListCache
	logger    *zap.Logger
}

// NewDeleteBookUseCase 创建下架用例
func NewDeleteBookUseCase(
	bookRepo book.Repository,
	cartRepo cart.Repository,
	txManager domain.TxManager,
	cache book.ListCache,
	logger *zap.Logger,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookRepo:  bookRepo,
		cartRepo:  cartRepo,
		txManager: txManager,
		cache:     cache,
		logger:    logger,
	}
}

// Execute 不存在时返回ErrBookNotFound
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	var removed int64
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if _, err := uc.bookRepo.LockByID(ctx, id); err != nil {
			return err
		}

		var err error
		removed, err = uc.cartRepo.DeleteByBook(ctx, id)
		if err != nil {
			return err
		}
		return uc.bookRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("图书列表缓存失效失败", zap.Error(err))
	}
	uc.logger.Info("图书已下架", zap.Uint("book_id", id), zap.Int64("cart_lines_removed", removed))
	return nil
}
