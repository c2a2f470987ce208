package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/radieske/bets-core/internal/shared/kafka"
	"github.com/radieske/bets-core/pkg/contracts/events"
)

// KafkaPublisher publica LedgerEvent no tópico de eventos do ledger.
// Key = userId: eventos de um mesmo usuário caem na mesma partição.
type KafkaPublisher struct {
	Writer kafka.MessageWriter
}

func NewKafkaPublisher(w kafka.MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev events.LedgerEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode ledger event: %w", err)
	}
	return kafka.WriteJSON(ctx, p.Writer, ev.UserID, b)
}
