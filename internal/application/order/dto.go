package order

import (
	"github.com/xiebiao/bookshelf/internal/domain/order"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	tracerName = "application/order"
)

// OrderInfo 订单DTO
type OrderInfo struct {
	ID           uint       `json:"id"`
	OrderNo      string     `json:"order_no"`
	UserID       uint       `json:"user_id"`
	CustomerName string     `json:"customer_name"`
	Address      string     `json:"address"`
	Total        int64      `json:"total"` // 分
	Status       string     `json:"status"`
	Items        []ItemInfo `json:"items"`
	CreatedAt    string     `json:"created_at"`
	UpdatedAt    string     `json:"updated_at"`
}

// ItemInfo 订单明细DTO
type ItemInfo struct {
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url"`
}

func toOrderInfo(o *order.Order) OrderInfo {
	items := make([]ItemInfo, len(o.Items))
	for i, item := range o.Items {
		items[i] = ItemInfo{
			BookID:   item.BookID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			ImageURL: item.ImageURL,
		}
	}
	return OrderInfo{
		ID:           o.ID,
		OrderNo:      o.OrderNo,
		UserID:       o.UserID,
		CustomerName: o.CustomerName,
		Address:      o.Address,
		Total:        o.Total,
		Status:       string(o.Status),
		Items:        items,
		CreatedAt:    o.CreatedAt.Format(timeLayout),
		UpdatedAt:    o.UpdatedAt.Format(timeLayout),
	}
}

func toOrderInfos(orders []*order.Order) []OrderInfo {
	list := make([]OrderInfo, len(orders))
	for i, o := range orders {
		list[i] = toOrderInfo(o)
	}
	return list
}
