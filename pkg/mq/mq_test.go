package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderEvent struct {
	OrderNo string `json:"order_no"`
	UserID  uint   `json:"user_id"`
}

// recordingAck 记录Ack/Nack调用
type recordingAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *recordingAck) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *recordingAck) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *recordingAck) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestEncode(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msg, err := encode(orderEvent{OrderNo: "ORD1714557600123456", UserID: 7}, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, now, msg.Timestamp)

	var decoded orderEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "ORD1714557600123456", decoded.OrderNo)
	assert.Equal(t, uint(7), decoded.UserID)
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := encode(make(chan int), time.Now())
	assert.Error(t, err)
}

func TestConsumer_Dispatch(t *testing.T) {
	c := &Consumer{queue: "test.order.queue", logger: zap.NewNop()}

	tests := []struct {
		name        string
		handlerErr  error
		wantAck     bool
		wantRequeue bool
	}{
		{name: "处理成功确认", handlerErr: nil, wantAck: true},
		{name: "处理失败重新入队", handlerErr: errors.New("db down"), wantRequeue: true},
		{name: "无法解析丢弃", handlerErr: fmt.Errorf("bad json: %w", ErrDiscard), wantRequeue: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &recordingAck{}
			var got Delivery
			c.dispatch(context.Background(), amqp.Delivery{
				Acknowledger: ack,
				DeliveryTag:  1,
				RoutingKey:   "order.created",
				Body:         []byte(`{"order_no":"ORD1"}`),
			}, func(ctx context.Context, d Delivery) error {
				got = d
				return tt.handlerErr
			})

			assert.Equal(t, "order.created", got.RoutingKey)
			assert.JSONEq(t, `{"order_no":"ORD1"}`, string(got.Body))
			assert.Equal(t, tt.wantAck, ack.acked)
			assert.Equal(t, !tt.wantAck, ack.nacked)
			assert.Equal(t, tt.wantRequeue, ack.requeue)
		})
	}
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	assert.NoError(t, p.Publish(context.Background(), "order.created", orderEvent{}))
}
