package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/cart"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// AddToCartUseCase 加入购物车
//
// 加入即扣减库存(软预留),结算时不再动库存。
// 流程在一个事务里完成:
//  1. SELECT ... FOR UPDATE 锁定图书行,同一本书的并发加购在这里排队
//  2. 库存<=0 直接返回库存不足
//  3. 已有(user, book)行则数量+1,否则按图书快照新建一行
//  4. 条件扣减 stock = stock - 1 (WHERE stock - 1 >= 0)
//
// 任何一步失败整个事务回滚,购物车行和库存要么一起变,要么都不变。
// 所有涉及库存的事务都按 图书行 -> 购物车行 的顺序加锁。
type AddToCartUseCase struct {
	bookRepo  book.Repository
	cartRepo  cart.Repository
	txManager domain.TxManager
	cache     book.ListCache
	logger    *zap.Logger
}

// NewAddToCartUseCase 创建加购用例
func NewAddToCartUseCase(
	bookRepo book.Repository,
	cartRepo cart.Repository,
	txManager domain.TxManager,
	cache book.ListCache,
	logger *zap.Logger,
) *AddToCartUseCase {
	return &AddToCartUseCase{
		bookRepo:  bookRepo,
		cartRepo:  cartRepo,
		txManager: txManager,
		cache:     cache,
		logger:    logger,
	}
}

// AddToCartRequest 加购请求
type AddToCartRequest struct {
	UserID uint // 从JWT中提取
	BookID uint
}

// AddToCartResponse 加购响应
type AddToCartResponse struct {
	Line           LineItem `json:"line"`
	RemainingStock int      `json:"remaining_stock"`
}

// Execute 执行加购
func (uc *AddToCartUseCase) Execute(ctx context.Context, req AddToCartRequest) (resp *AddToCartResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "AddToCart")
	defer func() { tracing.EndSpan(span, err) }()

	var (
		line      *cart.Line
		remaining int
	)
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.bookRepo.LockByID(ctx, req.BookID)
		if err != nil {
			return err
		}
		if !b.InStock() {
			return book.ErrInsufficientStock
		}

		line, err = uc.cartRepo.LockByUserAndBook(ctx, req.UserID, b.ID)
		if err != nil {
			return err
		}
		if line != nil {
			line.Quantity++
			if err := uc.cartRepo.UpdateQuantity(ctx, line.ID, line.Quantity); err != nil {
				return err
			}
		} else {
			line = cart.NewLine(req.UserID, b)
			if err := uc.cartRepo.Create(ctx, line); err != nil {
				return err
			}
		}

		if err := uc.bookRepo.UpdateStock(ctx, b.ID, -1); err != nil {
			return err
		}
		remaining = b.Stock - 1
		return nil
	})
	metrics.RecordCartOperation("add", result(err))
	if err != nil {
		return nil, err
	}
	metrics.RecordStockAdjustment("cart_add")

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("图书列表缓存失效失败", zap.Error(err))
	}

	uc.logger.Debug("加入购物车",
		zap.Uint("user_id", req.UserID),
		zap.Uint("book_id", req.BookID),
		zap.Int("quantity", line.Quantity),
		zap.Int("remaining_stock", remaining),
	)

	return &AddToCartResponse{
		Line:           toLineItem(line),
		RemainingStock: remaining,
	}, nil
}
