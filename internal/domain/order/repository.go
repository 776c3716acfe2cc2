package order

import (
	"context"
)

// Repository 订单仓储接口,订单和明细在同一事务中写入
type Repository interface {
	Create(ctx context.Context, order *Order) error

	// FindByID 含明细,不存在时返回ErrOrderNotFound
	FindByID(ctx context.Context, id uint) (*Order, error)

	// LockByID 行锁读取(含明细)
	LockByID(ctx context.Context, id uint) (*Order, error)

	UpdateStatus(ctx context.Context, id uint, status Status) error

	// ListByUserID 最新的在前
	ListByUserID(ctx context.Context, userID uint) ([]*Order, error)

	// ListAll 最新的在前
	ListAll(ctx context.Context) ([]*Order, error)
}
