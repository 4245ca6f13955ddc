// Package services holds the ledger use cases: transaction and account
// lifecycles, the balance maintainer, aggregation and reconciliation.
//
// Every multi-record change runs inside one storage unit of work. Events are
// published only after the unit of work commits and a publish failure never
// fails the request.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	"budget/internal/storage"
)

// EventPublisher receives committed ledger changes. *amqp.Client implements it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev amqp.LedgerEvent) error
}

type options struct {
	now             func() time.Time
	defaultCurrency string
}

type Option func(*options)

// WithClock overrides the time source used for defaulted timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDefaultCurrency sets the currency applied to accounts created without
// one.
func WithDefaultCurrency(code string) Option {
	return func(o *options) { o.defaultCurrency = code }
}

// Ledger bundles the services sharing one store and publisher.
type Ledger struct {
	Accounts     *AccountService
	Transactions *TransactionService
	Aggregator   *Aggregator
	Reconciler   *Reconciler

	store     storage.Store
	publisher EventPublisher
}

func NewLedger(store storage.Store, publisher EventPublisher, opts ...Option) *Ledger {
	o := options{now: time.Now, defaultCurrency: core.DefaultCurrency}
	for _, opt := range opts {
		opt(&o)
	}

	ev := events{publisher: publisher}
	return &Ledger{
		Accounts:     &AccountService{store: store, events: ev, defaultCurrency: o.defaultCurrency},
		Transactions: &TransactionService{store: store, events: ev, now: o.now},
		Aggregator:   &Aggregator{store: store},
		Reconciler:   &Reconciler{store: store},
		store:        store,
		publisher:    publisher,
	}
}

// Ping reports whether the store is reachable.
func (l *Ledger) Ping(ctx context.Context) error {
	if err := l.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}
	return nil
}

// Close closes the store and, when it holds a connection, the publisher.
func (l *Ledger) Close() error {
	var errs []error

	if l.store != nil {
		if err := l.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := l.publisher.(io.Closer); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger: %w", errors.Join(errs...))
	}
	return nil
}

type events struct {
	publisher EventPublisher
}

func (e events) publish(ctx context.Context, ev amqp.LedgerEvent) {
	if e.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping ledger event", "type", ev.Type)
		return
	}
	if err := e.publisher.PublishLedgerEvent(ctx, ev); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger event",
			"type", ev.Type,
			"account_id", ev.AccountID,
			"transaction_id", ev.TransactionID,
			"error", err)
	}
}

// storageErr passes domain errors through and classifies everything else as
// a storage failure.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if core.IsNotFound(err) || core.IsValidation(err) || errors.Is(err, core.ErrInvalidIdentifier) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, core.ErrStorageUnavailable, err)
}
