package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/cart"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// RemoveFromCartUseCase 移出购物车
//
// 整行删除并把该行数量全部归还库存,两步在同一事务中。
// 行必须属于当前用户,否则按不存在处理。
// 先不加锁读出行所属图书,锁住图书行后再锁购物车行。
type RemoveFromCartUseCase struct {
	bookRepo  book.Repository
	cartRepo  cart.Repository
	txManager domain.TxManager
	cache     book.ListCache
	logger    *zap.Logger
}

// NewRemoveFromCartUseCase 创建移出用例
func NewRemoveFromCartUseCase(
	bookRepo book.Repository,
	cartRepo cart.Repository,
	txManager domain.TxManager,
	cache book.ListCache,
	logger *zap.Logger,
) *RemoveFromCartUseCase {
	return &RemoveFromCartUseCase{
		bookRepo:  bookRepo,
		cartRepo:  cartRepo,
		txManager: txManager,
		cache:     cache,
		logger:    logger,
	}
}

// RemoveFromCartRequest 移出请求
type RemoveFromCartRequest struct {
	UserID uint
	LineID uint
}

// RemoveFromCartResponse 移出响应
type RemoveFromCartResponse struct {
	LineID    uint `json:"line_id"`
	BookID    uint `json:"book_id"`
	Restocked int  `json:"restocked"` // 归还的库存数量,图书已删除时为0
}

// Execute 执行移出
func (uc *RemoveFromCartUseCase) Execute(ctx context.Context, req RemoveFromCartRequest) (resp *RemoveFromCartResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "RemoveFromCart")
	defer func() { tracing.EndSpan(span, err) }()

	resp = &RemoveFromCartResponse{LineID: req.LineID}
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		// 加锁顺序与加购一致: 先图书行,再购物车行
		peek, err := uc.cartRepo.FindByID(ctx, req.UserID, req.LineID)
		if err != nil {
			return err
		}
		if _, err := uc.bookRepo.LockByID(ctx, peek.BookID); err != nil && !errors.Is(err, book.ErrBookNotFound) {
			return err
		}

		line, err := uc.cartRepo.LockByID(ctx, req.UserID, req.LineID)
		if err != nil {
			return err
		}
		resp.BookID = line.BookID

		// 图书已被删除时没有库存可归还
		switch err := uc.bookRepo.UpdateStock(ctx, line.BookID, line.Quantity); {
		case err == nil:
			resp.Restocked = line.Quantity
		case errors.Is(err, book.ErrBookNotFound):
			uc.logger.Info("图书已删除,跳过归还库存", zap.Uint("book_id", line.BookID))
		default:
			return err
		}

		n, err := uc.cartRepo.Delete(ctx, req.UserID, line.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return cart.ErrLineNotFound
		}
		return nil
	})
	metrics.RecordCartOperation("remove", result(err))
	if err != nil {
		return nil, err
	}

	if resp.Restocked > 0 {
		metrics.RecordStockAdjustment("cart_remove")
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warn("图书列表缓存失效失败", zap.Error(err))
		}
	}
	return resp, nil
}
