package order

import (
	"time"

	"github.com/xiebiao/bookshelf/internal/domain/cart"
)

// Status 订单状态
type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus 校验状态值
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// IsTerminal 已送达和已取消是终态
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Order 订单(聚合根)
//
// 创建后只有Status可变,订单从不删除。
type Order struct {
	ID           uint
	OrderNo      string
	UserID       uint
	CustomerName string
	Address      string
	Total        int64 // Σ price*quantity(分)
	Status       Status
	Items        []Item
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Item 订单明细,下单时的快照
type Item struct {
	ID       uint
	OrderID  uint
	BookID   uint
	Title    string
	Price    int64
	Quantity int
	ImageURL string
}

// NewFromCart 用购物车行生成待处理订单
func NewFromCart(orderNo string, userID uint, customerName, address string, lines []*cart.Line) *Order {
	items := make([]Item, len(lines))
	for i, l := range lines {
		items[i] = Item{
			BookID:   l.BookID,
			Title:    l.Title,
			Price:    l.Price,
			Quantity: l.Quantity,
			ImageURL: l.ImageURL,
		}
	}

	now := time.Now()
	o := &Order{
		OrderNo:      orderNo,
		UserID:       userID,
		CustomerName: customerName,
		Address:      address,
		Status:       StatusPending,
		Items:        items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	o.Total = o.CalculateTotal()
	return o
}

// CalculateTotal 按明细计算总额
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// CanTransitionTo 状态机
//
//	Pending -> Shipped / Delivered / Cancelled
//	Shipped -> Delivered / Cancelled
//	Delivered, Cancelled 为终态
func (o *Order) CanTransitionTo(target Status) bool {
	switch o.Status {
	case StatusPending:
		return target == StatusShipped || target == StatusDelivered || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered || target == StatusCancelled
	default:
		return false
	}
}

// TransitionTo 状态变更,目标与当前相同时返回false且不报错
func (o *Order) TransitionTo(target Status) (changed bool, err error) {
	if o.Status == target {
		return false, nil
	}
	if !o.CanTransitionTo(target) {
		return false, ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return true, nil
}

// IsOwnedBy 订单是否属于该用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
