package main

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/order"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

// newEventHandler 把订单事件写入结构化日志
// 无法解析的消息直接丢弃,避免反复重投
func newEventHandler(logger *zap.Logger) mq.Handler {
	return func(_ context.Context, d mq.Delivery) error {
		var event order.Event
		if err := json.Unmarshal(d.Body, &event); err != nil {
			return fmt.Errorf("解析订单事件失败: %v: %w", err, mq.ErrDiscard)
		}
		if event.Type == "" {
			event.Type = d.RoutingKey
		}

		fields := []zap.Field{
			zap.String("type", event.Type),
			zap.Uint("order_id", event.OrderID),
			zap.String("order_no", event.OrderNo),
			zap.Uint("user_id", event.UserID),
			zap.Int64("total", event.Total),
			zap.String("status", string(event.Status)),
			zap.Int("item_count", event.ItemCount),
			zap.Time("at", event.At),
		}
		if event.OldStatus != "" {
			fields = append(fields, zap.String("old_status", string(event.OldStatus)))
		}

		switch event.Type {
		case order.EventCreated:
			logger.Info("新订单", fields...)
		case order.EventStatusChanged:
			logger.Info("订单状态变更", fields...)
		default:
			logger.Warn("未知订单事件", fields...)
		}
		return nil
	}
}
