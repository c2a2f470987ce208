package events

import "time"

type LedgerEventType string

const (
	UserOnboarded      LedgerEventType = "USER_ONBOARDED"
	PreferencesUpdated LedgerEventType = "PREFERENCES_UPDATED"
	DepositRecorded    LedgerEventType = "DEPOSIT_RECORDED"
	WithdrawalRecorded LedgerEventType = "WITHDRAWAL_RECORDED"
	RunOpened          LedgerEventType = "RUN_OPENED"
	RunClosed          LedgerEventType = "RUN_CLOSED"
	PickCreated        LedgerEventType = "PICK_CREATED"
	PickSettled        LedgerEventType = "PICK_SETTLED"
	PickDeleted        LedgerEventType = "PICK_DELETED"
)

// Evento publicado no tópico "ledger_events" após cada escrita no ledger.
// Key da mensagem = userId, o que mantém a ordem por usuário.
type LedgerEvent struct {
	EventID  string          `json:"eventId"`
	Type     LedgerEventType `json:"type"`
	UserID   string          `json:"userId"`
	RunID    string          `json:"runId,omitempty"`
	EntityID string          `json:"entityId,omitempty"` // pick ou transação
	Status   string          `json:"status,omitempty"`
	Amount   string          `json:"amount,omitempty"` // decimal em texto
	Ts       time.Time       `json:"ts"`
}
