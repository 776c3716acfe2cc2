// Package mq 基于RabbitMQ的事件发布/订阅
//
// 订单事件发布到topic类型的Exchange，routing key形如 order.created、order.status_changed，
// 消费方按 order.* 绑定队列。消息持久化，消费端手动确认。
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// ErrDiscard handler返回包装了该错误的err时，消息被丢弃而不是重新入队（如无法解析的消息）
var ErrDiscard = errors.New("discard message")

// Publisher 消息发布者
//
// amqp.Channel 不支持并发发布，这里用互斥锁串行化
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher 连接RabbitMQ并声明Exchange
func NewPublisher(url, exchange, exchangeType string, logger *zap.Logger) (*Publisher, error) {
	conn, channel, err := open(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	logger.Info("消息发布者已创建",
		zap.String("exchange", exchange),
		zap.String("type", exchangeType),
	)

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish 以JSON发布持久化消息
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	msg, err := encode(message, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	metrics.RecordPublished(p.exchange, routingKey)
	p.logger.Debug("消息已发布",
		zap.String("routing_key", routingKey),
		zap.ByteString("body", msg.Body),
	)
	return nil
}

// Close 关闭发布者
func (p *Publisher) Close() error {
	return closeAll(p.channel, p.conn)
}

// NopPublisher 未启用消息队列时使用，丢弃所有消息
type NopPublisher struct{}

// Publish 不做任何事
func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// Delivery 交给handler的消息
type Delivery struct {
	RoutingKey string
	Body       []byte
	Timestamp  time.Time
}

// Handler 消息处理函数，返回错误时消息重新入队，错误包装ErrDiscard时丢弃
type Handler func(ctx context.Context, d Delivery) error

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
}

// NewConsumer 声明Exchange、Queue并按routingKeys绑定（支持 * 和 # 通配符）
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string, logger *zap.Logger) (*Consumer, error) {
	conn, channel, err := open(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	q, err := channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = closeAll(channel, conn)
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			_ = closeAll(channel, conn)
			return nil, fmt.Errorf("绑定Queue失败: %w", err)
		}
	}

	logger.Info("消息消费者已创建",
		zap.String("queue", q.Name),
		zap.Strings("routing_keys", routingKeys),
	)

	return &Consumer{
		conn:    conn,
		channel: channel,
		queue:   q.Name,
		logger:  logger,
	}, nil
}

// Consume 阻塞消费直到ctx取消，每次只预取1条
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	c.logger.Info("开始消费消息", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("消费者退出", zap.String("queue", c.queue))
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("消息Channel已关闭")
			}
			c.dispatch(ctx, msg, handler)
		}
	}
}

// dispatch 执行handler并确认消息
func (c *Consumer) dispatch(ctx context.Context, msg amqp.Delivery, handler Handler) {
	start := time.Now()
	err := handler(ctx, Delivery{
		RoutingKey: msg.RoutingKey,
		Body:       msg.Body,
		Timestamp:  msg.Timestamp,
	})
	elapsed := time.Since(start).Seconds()

	switch {
	case err == nil:
		if ackErr := msg.Ack(false); ackErr != nil {
			c.logger.Warn("消息确认失败", zap.Error(ackErr))
		}
		metrics.RecordConsumed(c.queue, "success", elapsed)
	case errors.Is(err, ErrDiscard):
		c.logger.Warn("消息被丢弃", zap.String("routing_key", msg.RoutingKey), zap.Error(err))
		_ = msg.Nack(false, false)
		metrics.RecordConsumed(c.queue, "discarded", elapsed)
	default:
		c.logger.Error("消息处理失败，重新入队", zap.String("routing_key", msg.RoutingKey), zap.Error(err))
		_ = msg.Nack(false, true)
		metrics.RecordConsumed(c.queue, "requeued", elapsed)
	}
}

// Close 关闭消费者
func (c *Consumer) Close() error {
	return closeAll(c.channel, c.conn)
}

func open(url, exchange, exchangeType string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		_ = closeAll(channel, conn)
		return nil, nil, fmt.Errorf("声明Exchange失败: %w", err)
	}
	return conn, channel, nil
}

func encode(message interface{}, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("消息序列化失败: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
	}, nil
}

func closeAll(channel *amqp.Channel, conn *amqp.Connection) error {
	var errs []error
	if channel != nil {
		errs = append(errs, channel.Close())
	}
	if conn != nil {
		errs = append(errs, conn.Close())
	}
	return errors.Join(errs...)
}
