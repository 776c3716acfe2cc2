package order

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/order"
)

// ListOrdersUseCase 我的订单
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// Execute 按下单时间倒序
func (uc *ListOrdersUseCase) Execute(ctx context.Context, userID uint) ([]OrderInfo, error) {
	orders, err := uc.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toOrderInfos(orders), nil
}

// ListAllOrdersUseCase 管理员查看全部订单
type ListAllOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListAllOrdersUseCase 创建用例
func NewListAllOrdersUseCase(orderRepo order.Repository) *ListAllOrdersUseCase {
	return &ListAllOrdersUseCase{orderRepo: orderRepo}
}

// ListAllOrdersResponse 全部订单及营业额
type ListAllOrdersResponse struct {
	Orders  []OrderInfo `json:"orders"`
	Count   int         `json:"count"`
	Revenue int64       `json:"revenue"` // Σ订单总额(分)
}

// Execute 按下单时间倒序
func (uc *ListAllOrdersUseCase) Execute(ctx context.Context) (*ListAllOrdersResponse, error) {
	orders, err := uc.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var revenue int64
	for _, o := range orders {
		revenue += o.Total
	}
	return &ListAllOrdersResponse{
		Orders:  toOrderInfos(orders),
		Count:   len(orders),
		Revenue: revenue,
	}, nil
}
