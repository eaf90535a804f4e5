package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishOrderCreated(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	coupon := "SUMMER10"

	err := p.PublishOrderCreated(context.Background(), OrderCreated{
		OrderID:    42,
		UserID:     7,
		TotalBill:  decimal.RequireFromString("17.00"),
		CouponCode: &coupon,
		ItemCount:  2,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "7", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, OrderCreatedType, string(msg.Headers[0].Value))

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, float64(42), got["order_id"])
	assert.Equal(t, "17", got["total_bill"])
	assert.Equal(t, "SUMMER10", got["coupon_code"])
	assert.Equal(t, OrderCreatedType, got["type"])
	assert.NotEmpty(t, got["event_id"])
	assert.NotEmpty(t, got["occurred_at"])
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unreachable")}
	p := &KafkaPublisher{writer: w}

	err := p.PublishOrderCreated(context.Background(), OrderCreated{OrderID: 1})
	assert.ErrorContains(t, err, "kafka: write failed")
	assert.ErrorIs(t, err, w.err)
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}
	assert.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNew(t *testing.T) {
	assert.IsType(t, NopPublisher{}, New(nil, "orders.created"))

	kp, ok := New([]string{"localhost:9092"}, "orders.created").(*KafkaPublisher)
	require.True(t, ok)
	writer, ok := kp.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "orders.created", writer.Topic)
	assert.NoError(t, kp.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishOrderCreated(context.Background(), OrderCreated{}))
	assert.NoError(t, p.Close())
}
