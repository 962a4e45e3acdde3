package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "bookstore.events", nil)
	fixed := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	event := map[string]any{"transactionId": "tx-1", "totalAmount": 3000}
	require.NoError(t, p.Publish(context.Background(), "transaction.created", event))

	require.Len(t, ch.sent, 1)
	got := ch.sent[0]
	assert.Equal(t, "bookstore.events", got.exchange)
	assert.Equal(t, "transaction.created", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, fixed, got.msg.Timestamp)

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "tx-1", body["transactionId"])
	assert.EqualValues(t, 3000, body["totalAmount"])
}

func TestPublisher_PublishErrors(t *testing.T) {
	t.Run("broker错误", func(t *testing.T) {
		boom := errors.New("channel closed")
		p := newPublisher(&fakeChannel{err: boom}, "bookstore.events", nil)

		err := p.Publish(context.Background(), "transaction.created", struct{}{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("无法序列化", func(t *testing.T) {
		ch := &fakeChannel{}
		p := newPublisher(ch, "bookstore.events", nil)

		err := p.Publish(context.Background(), "transaction.created", make(chan int))
		assert.Error(t, err)
		assert.Empty(t, ch.sent)
	})
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "bookstore.events", nil)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
