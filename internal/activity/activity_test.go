package activity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	mu     sync.Mutex
	keys   []string
	events []Event
	err    error
	closed bool
}

func (f *fakeProducer) Publish(ctx context.Context, key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.events = append(f.events, value.(Event))
	return f.err
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestEvent_KeyAndWith(t *testing.T) {
	e := New(OrderPlaced, "alice01", "")
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "alice01", e.Key())

	anon := New(ContactSubmitted, "", "")
	assert.Equal(t, string(ContactSubmitted), anon.Key())

	withData := e.With("total", "139600")
	assert.Nil(t, e.Data)
	assert.Equal(t, "139600", withData.Data["total"])
}

func TestKafkaPublisher_PublishesAndFlushesOnClose(t *testing.T) {
	fp := &fakeProducer{}
	pub := newKafkaPublisher(fp, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	pub.Publish(ctx, New(CartItemAdded, "alice01", "7"))
	cancel()
	pub.Publish(ctx, New(CartItemAdded, "bob", "8"))

	require.NoError(t, pub.Close())
	assert.True(t, fp.closed)
	assert.ElementsMatch(t, []string{"alice01", "bob"}, fp.keys)
}

func TestKafkaPublisher_ErrorIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	fp := &fakeProducer{err: errors.New("broker down")}
	pub := newKafkaPublisher(fp, zerolog.New(&buf))

	pub.Publish(context.Background(), New(UserLoggedIn, "alice01", ""))
	require.NoError(t, pub.Close())
	assert.Contains(t, buf.String(), "broker down")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	p.Publish(context.Background(), New(UserLoggedIn, "x", ""))
	assert.NoError(t, p.Close())
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHandler(zerolog.New(&buf))

	data, err := json.Marshal(New(OrderStatusUpdated, "admin01", "4").With("status", "shipped"))
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(context.Background(), []byte("admin01"), data))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order.status_updated", line["type"])
	assert.Equal(t, "admin01", line["username"])
	assert.Equal(t, "4", line["subject"])
	assert.Equal(t, "shipped", line["status"])
}

func TestLogHandler_BadPayload(t *testing.T) {
	h := NewLogHandler(zerolog.Nop())
	assert.Error(t, h.HandleEvent(context.Background(), nil, []byte("{")))
}
