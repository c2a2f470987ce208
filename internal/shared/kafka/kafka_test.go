package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, Brokers(" a:9092,b:9092 ,"))
	assert.Empty(t, Brokers(""))
}

func TestNewWriter(t *testing.T) {
	w := NewWriter("a:9092,b:9092", "ledger_events")
	defer w.Close()

	assert.Equal(t, "ledger_events", w.Topic)
	assert.NotNil(t, w.Addr)
}

type captureWriter struct {
	msgs []Message
	err  error
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...Message) error {
	c.msgs = append(c.msgs, msgs...)
	return c.err
}

func TestWriteJSON(t *testing.T) {
	w := &captureWriter{}
	require.NoError(t, WriteJSON(context.Background(), w, "u1", []byte(`{"a":1}`)))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "u1", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"a":1}`, string(w.msgs[0].Value))
	assert.False(t, w.msgs[0].Time.IsZero())

	w.err = errors.New("broker down")
	err := WriteJSON(context.Background(), w, "u1", nil)
	assert.ErrorContains(t, err, "write kafka message")
	assert.ErrorIs(t, err, w.err)
}
