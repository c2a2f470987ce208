package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bets-core/internal/bankroll/service"
	"github.com/radieske/bets-core/internal/shared/kafka"
	"github.com/radieske/bets-core/pkg/contracts/events"
)

// MessageReader é o lado de leitura do *kafka.Reader
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Refresher recalcula e guarda em cache o dashboard de um usuário (service.Ledger)
type Refresher interface {
	Refresh(ctx context.Context, userID string) (service.Dashboard, error)
}

// Broadcaster publica o dashboard num canal Pub/Sub
type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

var errMissingUser = errors.New("event without userId")

// Processor consome ledger_events, recalcula o dashboard do usuário e faz broadcast.
// Mensagens que não decodificam ou não podem ser projetadas vão para a DLQ.
type Processor struct {
	Log         *zap.Logger
	Reader      MessageReader
	Refresher   Refresher
	Broadcaster Broadcaster
	Channel     string
	DLQ         kafka.MessageWriter // opcional

	BroadcastTimeout time.Duration

	OnConsumed   func()       // métricas (counter++)
	OnRefreshed  func()       // métricas
	OnBroadcast  func()       // métricas
	OnDeadLetter func()       // métricas
	OnError      func(string) // métricas por fase
}

// Run inicia o loop principal de consumo; retorna quando o contexto é cancelado
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}
		p.Handle(ctx, m)
	}
}

// Handle processa uma mensagem: decode -> refresh -> broadcast
func (p *Processor) Handle(ctx context.Context, m kafka.Message) {
	var ev events.LedgerEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		p.Log.Warn("invalid message", zap.Error(err))
		p.fail("decode")
		p.deadLetter(ctx, m, err)
		return
	}
	if ev.UserID == "" {
		p.Log.Warn("invalid message", zap.String("eventId", ev.EventID), zap.Error(errMissingUser))
		p.fail("decode")
		p.deadLetter(ctx, m, errMissingUser)
		return
	}

	d, err := p.Refresher.Refresh(ctx, ev.UserID)
	if err != nil {
		p.Log.Warn("dashboard refresh failed", zap.String("userId", ev.UserID),
			zap.String("type", string(ev.Type)), zap.Error(err))
		p.fail("refresh")
		p.deadLetter(ctx, m, err)
		return
	}
	if p.OnRefreshed != nil {
		p.OnRefreshed()
	}

	if p.Broadcaster == nil {
		return
	}
	if err := p.broadcast(ctx, ev.UserID, d); err != nil {
		// dashboard já está no cache; o próximo evento reenvia
		p.Log.Warn("dashboard broadcast failed", zap.String("userId", ev.UserID), zap.Error(err))
		p.fail("broadcast")
		return
	}
	if p.OnBroadcast != nil {
		p.OnBroadcast()
	}
}

func (p *Processor) broadcast(ctx context.Context, userID string, d service.Dashboard) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	b, err := json.Marshal(events.DashboardUpdate{UserID: userID, Payload: payload})
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}

	timeout := p.BroadcastTimeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Broadcaster.Publish(ctx, p.Channel, b)
}

// deadLetter copia a mensagem original para a DLQ com o motivo no header "error"
func (p *Processor) deadLetter(ctx context.Context, m kafka.Message, cause error) {
	if p.DLQ == nil {
		return
	}
	msg := kafka.Message{
		Key:   m.Key,
		Value: m.Value,
		Headers: append(append([]kafka.Header{}, m.Headers...),
			kafka.Header{Key: "error", Value: []byte(cause.Error())},
			kafka.Header{Key: "source_offset", Value: []byte(fmt.Sprint(m.Offset))},
		),
		Time: time.Now(),
	}
	if err := p.DLQ.WriteMessages(ctx, msg); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
		p.fail("dlq")
		return
	}
	if p.OnDeadLetter != nil {
		p.OnDeadLetter()
	}
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
