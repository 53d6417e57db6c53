package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NopWithoutBrokers(t *testing.T) {
	p := New(nil)
	_, ok := p.(Nop)
	assert.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), TopicOrder, "1", OrderEvent{}))

	_, ok = New([]string{"localhost:9092"}).(*Producer)
	assert.True(t, ok)
}

func TestMessage_EncodesEvent(t *testing.T) {
	msg, err := Message(TopicOrder, Key(12), OrderEvent{
		Type:        OrderCreated,
		OrderID:     12,
		UserID:      3,
		TotalAmount: decimal.RequireFromString("99.98"),
	})
	require.NoError(t, err)
	assert.Equal(t, TopicOrder, msg.Topic)
	assert.Equal(t, []byte("12"), msg.Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "order_created", decoded["type"])
	assert.Equal(t, "99.98", decoded["total_amount"])
}

func TestMessage_RejectsUnencodable(t *testing.T) {
	_, err := Message(TopicCart, "k", make(chan int))
	assert.Error(t, err)
}
