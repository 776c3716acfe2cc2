package order

import (
	"context"

	"go.uber.org/zap"
)

// EventPublisher 订单事件发布,由mq.Publisher实现
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// publish 事务提交后发布,失败只记日志不影响业务结果
func publish(ctx context.Context, p EventPublisher, logger *zap.Logger, routingKey string, event interface{}) {
	if err := p.Publish(ctx, routingKey, event); err != nil {
		logger.Warn("订单事件发布失败",
			zap.String("routing_key", routingKey),
			zap.Any("event", event),
			zap.Error(err),
		)
	}
}
