package producer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/bets-core/internal/shared/kafka"
	"github.com/radieske/bets-core/pkg/contracts/events"
)

type fakeWriter struct{ msgs []kafka.Message }

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestKafkaPublisher_KeysByUser(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)
	ev := events.LedgerEvent{
		EventID:  "e1",
		Type:     events.PickSettled,
		UserID:   "u1",
		RunID:    "r1",
		EntityID: "p1",
		Status:   "WON",
		Amount:   "100",
		Ts:       time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "u1", string(w.msgs[0].Key))

	var got events.LedgerEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, ev, got)
}
