package cart

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/cart"
)

// GetCartUseCase 查看购物车
type GetCartUseCase struct {
	cartRepo cart.Repository
}

// NewGetCartUseCase 创建查看购物车用例
func NewGetCartUseCase(cartRepo cart.Repository) *GetCartUseCase {
	return &GetCartUseCase{cartRepo: cartRepo}
}

// GetCartResponse 购物车内容
type GetCartResponse struct {
	Lines      []LineItem `json:"lines"`
	TotalItems int        `json:"total_items"` // 件数之和
	Total      int64      `json:"total"`       // 合计(分)
}

// Execute 查询当前用户的购物车
func (uc *GetCartUseCase) Execute(ctx context.Context, userID uint) (*GetCartResponse, error) {
	lines, err := uc.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &GetCartResponse{
		Lines: make([]LineItem, len(lines)),
		Total: cart.Total(lines),
	}
	for i, l := range lines {
		resp.Lines[i] = toLineItem(l)
		resp.TotalItems += l.Quantity
	}
	return resp, nil
}
