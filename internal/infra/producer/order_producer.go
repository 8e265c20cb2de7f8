package producer

import (
	"context"
	"encoding/json"
	"net"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/shoeshop/internal/domain/model"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

type OrderEvent string

var (
	OrderEventCreated OrderEvent = "order_created"
)

// IOrderEventProducer 結帳成功後發佈訂單事件
// 發佈失敗不影響已提交的結帳，由呼叫端記錄
type IOrderEventProducer interface {
	OrderCreated(ctx context.Context, order *model.Order) error
	Close() error
}

type orderEventProducer struct {
	writer *kafka.Writer
	closed atomic.Bool
}

// NewOrderEventProducer 建立訂單事件 producer
func NewOrderEventProducer(brokers []string, topic string) IOrderEventProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,

		// 重試機制設置
		MaxAttempts: 3,

		// 重連機制設置
		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network string, address string) (net.Conn, error) {
				dialer := &kafka.Dialer{
					Timeout:   10 * time.Second,
					DualStack: true,
					KeepAlive: 30 * time.Second,
				}
				return dialer.DialContext(ctx, network, address)
			},
		},

		// 錯誤處理
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error().Msgf("kafka order producer error: "+msg, args...)
		}),

		// 壓縮設置
		Compression: kafka.Snappy,
	}

	return &orderEventProducer{writer: writer}
}

func (p *orderEventProducer) OrderCreated(ctx context.Context, order *model.Order) error {
	return p.produce(ctx, OrderEventCreated, order)
}

func (p *orderEventProducer) produce(ctx context.Context, event OrderEvent, order *model.Order) error {
	if p.closed.Load() {
		return kafka.ErrGroupClosed
	}

	value, err := json.Marshal(order)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(order.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{
				Key:   "event_type",
				Value: []byte(event),
			},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *orderEventProducer) Close() error {
	if p.closed.CompareAndSwap(false, true) {
		return p.writer.Close()
	}
	return nil
}

var _ IOrderEventProducer = (*orderEventProducer)(nil)
