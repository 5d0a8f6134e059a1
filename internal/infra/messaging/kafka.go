package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	kafka "github.com/segmentio/kafka-go"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/config"
)

// messageWriter は Kafka Writer の抽象インターフェース。
// テスト時にモックへ差し替え可能にする。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...writerMessage) error
	Close() error
}

// writerMessage は Kafka に送信するメッセージを表す。
type writerMessage struct {
	Topic string
	Key   []byte
	Value []byte
}

// kafkaGoWriter は kafka-go の Writer をラップする本番実装。
type kafkaGoWriter struct {
	w *kafka.Writer
}

func (k *kafkaGoWriter) WriteMessages(ctx context.Context, msgs ...writerMessage) error {
	kafkaMsgs := make([]kafka.Message, len(msgs))
	for i, m := range msgs {
		kafkaMsgs[i] = kafka.Message{
			Topic: m.Topic,
			Key:   m.Key,
			Value: m.Value,
		}
	}
	return k.w.WriteMessages(ctx, kafkaMsgs...)
}

func (k *kafkaGoWriter) Close() error {
	return k.w.Close()
}

// KafkaProducer はクーポン関連イベントの Kafka プロデューサー。
type KafkaProducer struct {
	writer messageWriter
	topics config.KafkaTopics
}

// NewKafkaProducer は新しい KafkaProducer を作成する。
func NewKafkaProducer(cfg config.KafkaConfig) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},    // パーティションキーによる分散
		RequiredAcks: kafka.RequireAll, // acks=all
		Async:        false,
	}
	return &KafkaProducer{
		writer: &kafkaGoWriter{w: w},
		topics: cfg.Topics,
	}
}

// PublishRedeemEvent はクーポン利用イベントを配信する。
// パーティションキーは couponId.claimantId。
func (p *KafkaProducer) PublishRedeemEvent(ctx context.Context, event *model.RedeemEvent) error {
	return p.publish(ctx, p.topics.Redeem, event.CouponID+"."+event.ClaimantID, event)
}

// PublishCouponEvent はクーポン変更イベントを配信する。
func (p *KafkaProducer) PublishCouponEvent(ctx context.Context, event *model.CouponChangeEvent) error {
	return p.publish(ctx, p.topics.Coupon, event.CouponID, event)
}

// PublishPlanEvent はプラン変更イベントを配信する。
func (p *KafkaProducer) PublishPlanEvent(ctx context.Context, event *model.PlanChangeEvent) error {
	return p.publish(ctx, p.topics.Plan, event.CompanyID, event)
}

func (p *KafkaProducer) publish(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	msg := writerMessage{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", topic, err)
	}

	return nil
}

// Healthy は Kafka プロデューサーの状態を確認する。
// Writer は接続を遅延確立するため、ここでは常に nil を返す。
func (p *KafkaProducer) Healthy(_ context.Context) error {
	return nil
}

// Close は Kafka プロデューサーを閉じる。
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
