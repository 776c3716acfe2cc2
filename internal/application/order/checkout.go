package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain"
	"github.com/xiebiao/bookshelf/internal/domain/cart"
	"github.com/xiebiao/bookshelf/internal/domain/order"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// CheckoutUseCase 结算:把购物车转成订单
//
// 库存在加购时已经扣减,结算不再读写图书库存。
// 同一事务内:
//  1. 锁定用户全部购物车行,没有则返回购物车为空
//  2. 以购物车行快照生成待处理订单,总额 = Σ price*quantity
//  3. 删除第1步读到的那些行
//
// 提交后发布 order.created 事件。
type CheckoutUseCase struct {
	cartRepo  cart.Repository
	orderRepo order.Repository
	txManager domain.TxManager
	publisher EventPublisher
	logger    *zap.Logger
}

// NewCheckoutUseCase 创建结算用例
func NewCheckoutUseCase(
	cartRepo cart.Repository,
	orderRepo order.Repository,
	txManager domain.TxManager,
	publisher EventPublisher,
	logger *zap.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	UserID       uint
	CustomerName string
	Address      string
}

// Execute 执行结算
func (uc *CheckoutUseCase) Execute(ctx context.Context, req CheckoutRequest) (resp *OrderInfo, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Checkout")
	defer func() { tracing.EndSpan(span, err) }()

	start := time.Now()
	customerName := strings.TrimSpace(req.CustomerName)
	address := strings.TrimSpace(req.Address)
	if customerName == "" {
		return nil, order.ErrCustomerNameRequired
	}
	if address == "" {
		return nil, order.ErrAddressRequired
	}

	var o *order.Order
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		lines, err := uc.cartRepo.LockByUser(ctx, req.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return cart.ErrEmptyCart
		}

		o = order.NewFromCart(order.GenerateOrderNo(), req.UserID, customerName, address, lines)
		if err := uc.orderRepo.Create(ctx, o); err != nil {
			return err
		}

		n, err := uc.cartRepo.Delete(ctx, req.UserID, cart.IDs(lines)...)
		if err != nil {
			return err
		}
		if n != int64(len(lines)) {
			return apperrors.Wrap(fmt.Errorf("expected %d lines, deleted %d", len(lines), n), "清空购物车失败")
		}
		return nil
	})

	elapsed := time.Since(start).Seconds()
	if err != nil {
		label := "error"
		if errors.Is(err, cart.ErrEmptyCart) {
			label = "empty_cart"
		}
		metrics.RecordCheckout(label, elapsed, 0)
		return nil, err
	}
	metrics.RecordCheckout("success", elapsed, o.Total)

	uc.logger.Info("订单已创建",
		zap.String("order_no", o.OrderNo),
		zap.Uint("user_id", o.UserID),
		zap.Int64("total", o.Total),
		zap.Int("items", len(o.Items)),
	)
	publish(ctx, uc.publisher, uc.logger, order.EventCreated, order.CreatedEvent(o))

	info := toOrderInfo(o)
	return &info, nil
}
