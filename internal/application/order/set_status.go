package order

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/order"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// SetStatusUseCase 管理员修改订单状态
//
// 目标状态与当前相同时什么都不做;取消订单时在同一事务中把每个明细的数量归还库存,
// 已删除的图书跳过。
type SetStatusUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager domain.TxManager
	cache     book.ListCache
	publisher EventPublisher
	logger    *zap.Logger
}

// NewSetStatusUseCase 创建用例
func NewSetStatusUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager domain.TxManager,
	cache book.ListCache,
	publisher EventPublisher,
	logger *zap.Logger,
) *SetStatusUseCase {
	return &SetStatusUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// SetStatusRequest 修改状态请求
type SetStatusRequest struct {
	OrderID uint
	Status  string
}

// Execute 执行状态变更
func (uc *SetStatusUseCase) Execute(ctx context.Context, req SetStatusRequest) (resp *OrderInfo, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "SetOrderStatus")
	defer func() { tracing.EndSpan(span, err) }()

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	var (
		o         *order.Order
		old       order.Status
		changed   bool
		restocked bool
	)
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		o, err = uc.orderRepo.LockByID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		old = o.Status

		changed, err = o.TransitionTo(target)
		if err != nil || !changed {
			return err
		}
		if err := uc.orderRepo.UpdateStatus(ctx, o.ID, o.Status); err != nil {
			return err
		}

		if o.Status != order.StatusCancelled {
			return nil
		}
		// 多本书按id升序归还,并发取消的订单之间不会交叉等锁
		qty := make(map[uint]int, len(o.Items))
		ids := make([]uint, 0, len(o.Items))
		for _, item := range o.Items {
			qty[item.BookID] += item.Quantity
			ids = append(ids, item.BookID)
		}
		for _, id := range book.LockOrder(ids) {
			err := uc.bookRepo.UpdateStock(ctx, id, qty[id])
			switch {
			case err == nil:
				restocked = true
			case errors.Is(err, book.ErrBookNotFound):
				uc.logger.Info("图书已删除,跳过归还库存",
					zap.String("order_no", o.OrderNo),
					zap.Uint("book_id", id),
				)
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.logger.Info("订单状态已变更",
			zap.String("order_no", o.OrderNo),
			zap.String("from", string(old)),
			zap.String("to", string(o.Status)),
		)
		publish(ctx, uc.publisher, uc.logger, order.EventStatusChanged, order.StatusChangedEvent(o, old))
	}
	if restocked {
		metrics.RecordStockAdjustment("order_cancel")
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warn("图书列表缓存失效失败", zap.Error(err))
		}
	}

	info := toOrderInfo(o)
	return &info, nil
}
