package pkg

import (
	"context"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// HeaderEventType 消息头里的事件类型
const HeaderEventType = "event_type"

// Event 一条待投递的领域事件
type Event struct {
	Key     string
	Type    string
	Payload []byte
	Time    time.Time
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaProducer 同步写入单个 topic，同一 key 落在同一分区
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(cfg KafkaConfig) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		topic: cfg.Topic,
	}
}

func (p *KafkaProducer) Topic() string { return p.topic }

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Publish 写入一条事件，类型放在消息头
func (p *KafkaProducer) Publish(ctx context.Context, ev Event) error {
	return p.writer.WriteMessages(ctx, eventMessage(ev))
}

func eventMessage(ev Event) kafka.Message {
	msg := kafka.Message{
		Key:     []byte(ev.Key),
		Value:   ev.Payload,
		Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(ev.Type)}},
	}
	if !ev.Time.IsZero() {
		msg.Time = ev.Time
	}
	return msg
}

func MakeKeyFromID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
