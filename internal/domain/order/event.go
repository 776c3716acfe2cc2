package order

import "time"

// 事件routing key
const (
	EventCreated       = "order.created"
	EventStatusChanged = "order.status_changed"
)

// Event 订单事件,提交后发布到消息队列
type Event struct {
	Type      string    `json:"type"`
	OrderID   uint      `json:"order_id"`
	OrderNo   string    `json:"order_no"`
	UserID    uint      `json:"user_id"`
	Total     int64     `json:"total"`
	Status    Status    `json:"status"`
	OldStatus Status    `json:"old_status,omitempty"`
	ItemCount int       `json:"item_count"`
	At        time.Time `json:"at"`
}

// CreatedEvent 下单事件
func CreatedEvent(o *Order) Event {
	return newEvent(EventCreated, o)
}

// StatusChangedEvent 状态变更事件
func StatusChangedEvent(o *Order, old Status) Event {
	e := newEvent(EventStatusChanged, o)
	e.OldStatus = old
	return e
}

func newEvent(typ string, o *Order) Event {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return Event{
		Type:      typ,
		OrderID:   o.ID,
		OrderNo:   o.OrderNo,
		UserID:    o.UserID,
		Total:     o.Total,
		Status:    o.Status,
		ItemCount: count,
		At:        time.Now(),
	}
}
