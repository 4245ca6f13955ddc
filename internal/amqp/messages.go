package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"budget/internal/core"
)

// EventType names a committed ledger change.
type EventType string

const (
	EventTransactionCreated EventType = "transaction.created"
	EventTransactionDeleted EventType = "transaction.deleted"
	EventAccountDeleted     EventType = "account.deleted"
)

// LedgerEvent is published after a ledger write commits. Created events
// carry the full transaction so consumers need no access to the store.
type LedgerEvent struct {
	Type                EventType         `json:"type"`
	AccountID           string            `json:"account_id"`
	TransactionID       string            `json:"transaction_id,omitempty"`
	Transaction         *core.Transaction `json:"transaction,omitempty"`
	DeletedTransactions int64             `json:"deleted_transactions,omitempty"`
	Timestamp           time.Time         `json:"timestamp"`
}

func NewTransactionCreated(t core.Transaction) LedgerEvent {
	return LedgerEvent{
		Type:          EventTransactionCreated,
		AccountID:     t.AccountID,
		TransactionID: t.ID,
		Transaction:   &t,
		Timestamp:     time.Now(),
	}
}

func NewTransactionDeleted(t core.Transaction) LedgerEvent {
	return LedgerEvent{
		Type:          EventTransactionDeleted,
		AccountID:     t.AccountID,
		TransactionID: t.ID,
		Timestamp:     time.Now(),
	}
}

func NewAccountDeleted(accountID string, deleted int64) LedgerEvent {
	return LedgerEvent{
		Type:                EventAccountDeleted,
		AccountID:           accountID,
		DeletedTransactions: deleted,
		Timestamp:           time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Type {
	case EventTransactionCreated:
		if ev.Transaction == nil {
			return nil, fmt.Errorf("%s event without transaction", ev.Type)
		}
	case EventTransactionDeleted:
		if ev.TransactionID == "" {
			return nil, fmt.Errorf("%s event without transaction_id", ev.Type)
		}
	case EventAccountDeleted:
		if ev.AccountID == "" {
			return nil, fmt.Errorf("%s event without account_id", ev.Type)
		}
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return &ev, nil
}
