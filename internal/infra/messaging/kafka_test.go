package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k1s0-platform/system-server-go-coupon/internal/domain/model"
	"github.com/k1s0-platform/system-server-go-coupon/internal/infra/config"
)

// mockWriter は kafka.Writer のモック実装。
type mockWriter struct {
	messages []writerMessage
	err      error
	closed   bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...writerMessage) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func testTopics() config.KafkaTopics {
	return config.KafkaTopics{
		Redeem: "k1s0.system.coupon.redeemed.v1",
		Coupon: "k1s0.system.coupon.changed.v1",
		Plan:   "k1s0.system.coupon.plan-changed.v1",
	}
}

func makeTestRedeemEvent() *model.RedeemEvent {
	return &model.RedeemEvent{
		ID:         "event-uuid-1234",
		CouponID:   "coupon-uuid-5678",
		CompanyID:  "company-uuid-9012",
		ClaimantID: "student-app-0001",
		CodeKind:   model.CodeKindStatic,
		RedeemedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishRedeemEvent_Serialization(t *testing.T) {
	mock := &mockWriter{}
	p := &KafkaProducer{writer: mock, topics: testTopics()}

	event := makeTestRedeemEvent()
	err := p.PublishRedeemEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, mock.messages, 1)
	msg := mock.messages[0]

	// JSON に正常変換されていることを確認
	var deserialized model.RedeemEvent
	err = json.Unmarshal(msg.Value, &deserialized)
	require.NoError(t, err)
	assert.Equal(t, event.ID, deserialized.ID)
	assert.Equal(t, event.CouponID, deserialized.CouponID)
	assert.Equal(t, event.ClaimantID, deserialized.ClaimantID)
	assert.Equal(t, event.CodeKind, deserialized.CodeKind)
}

func TestPublishRedeemEvent_KeyAndTopic(t *testing.T) {
	mock := &mockWriter{}
	p := &KafkaProducer{writer: mock, topics: testTopics()}

	event := makeTestRedeemEvent()
	err := p.PublishRedeemEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, mock.messages, 1)
	// パーティションキーが couponId.claimantId であることを確認
	assert.Equal(t, []byte(event.CouponID+"."+event.ClaimantID), mock.messages[0].Key)
	assert.Equal(t, "k1s0.system.coupon.redeemed.v1", mock.messages[0].Topic)
}

func TestPublishCouponEvent_Topic(t *testing.T) {
	mock := &mockWriter{}
	p := &KafkaProducer{writer: mock, topics: testTopics()}

	event := &model.CouponChangeEvent{
		ID:         "event-uuid-1",
		CouponID:   "coupon-uuid-2",
		CompanyID:  "company-uuid-3",
		ChangeType: "UPDATED",
		ChangedAt:  time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	err := p.PublishCouponEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, mock.messages, 1)
	assert.Equal(t, "k1s0.system.coupon.changed.v1", mock.messages[0].Topic)
	assert.Equal(t, []byte(event.CouponID), mock.messages[0].Key)
}

func TestPublishPlanEvent_Topic(t *testing.T) {
	mock := &mockWriter{}
	p := &KafkaProducer{writer: mock, topics: testTopics()}

	event := &model.PlanChangeEvent{
		ID:        "event-uuid-1",
		CompanyID: "company-uuid-2",
		APIKeyID:  "key-uuid-3",
		OldTier:   model.TierFree,
		NewTier:   model.TierPro,
		ChangedAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	err := p.PublishPlanEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, mock.messages, 1)
	assert.Equal(t, "k1s0.system.coupon.plan-changed.v1", mock.messages[0].Topic)
	assert.Equal(t, []byte(event.CompanyID), mock.messages[0].Key)
}

func TestPublish_ConnectionError(t *testing.T) {
	mock := &mockWriter{err: errors.New("broker connection refused")}
	p := &KafkaProducer{writer: mock, topics: testTopics()}

	err := p.PublishRedeemEvent(context.Background(), makeTestRedeemEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker connection refused")
}

func TestClose_Graceful(t *testing.T) {
	mock := &mockWriter{}
	p := &KafkaProducer{writer: mock, topics: testTopics()}

	err := p.Close()
	require.NoError(t, err)
	assert.True(t, mock.closed)
}

func TestHealthy(t *testing.T) {
	p := &KafkaProducer{writer: &mockWriter{}, topics: testTopics()}
	require.NoError(t, p.Healthy(context.Background()))
}
