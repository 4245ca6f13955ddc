// Package worker runs the background side of the ledger: mirroring committed
// changes into a spreadsheet and periodically reconciling balances.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budget/internal/amqp"
	"budget/internal/core"
	ledgerlog "budget/internal/log"
	"budget/internal/sheets"
	"budget/internal/storage"
)

// MirrorWorker applies ledger events to a sheets.Exporter.
type MirrorWorker struct {
	exporter sheets.Exporter
	store    storage.Reader
}

// NewMirrorWorker builds a worker. store may be nil, in which case Backfill
// is unavailable and only live events are mirrored.
func NewMirrorWorker(exporter sheets.Exporter, store storage.Reader) *MirrorWorker {
	return &MirrorWorker{exporter: exporter, store: store}
}

// HandleEvent processes a single ledger event from AMQP. A returned error
// makes the consumer requeue the message.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		ledgerlog.FieldComponent, ledgerlog.ComponentWorker,
		ledgerlog.FieldEventType, ev.Type,
		ledgerlog.FieldAccountID, ev.AccountID,
		ledgerlog.FieldTransactionID, ev.TransactionID)

	switch ev.Type {
	case amqp.EventTransactionCreated:
		ref, err := w.exporter.Append(ctx, *ev.Transaction)
		if err != nil {
			return fmt.Errorf("append transaction %s: %w", ev.TransactionID, err)
		}
		slog.InfoContext(ctx, "Mirrored transaction",
			ledgerlog.FieldTransactionID, ev.TransactionID,
			ledgerlog.FieldSheetsRef, ref,
			ledgerlog.FieldAmountCents, ev.Transaction.Amount.Cents)

	case amqp.EventTransactionDeleted:
		n, err := w.exporter.DeleteTransaction(ctx, ev.TransactionID)
		if err != nil {
			return fmt.Errorf("delete transaction %s: %w", ev.TransactionID, err)
		}
		if n == 0 {
			slog.WarnContext(ctx, "Deleted transaction was not mirrored", ledgerlog.FieldTransactionID, ev.TransactionID)
		}

	case amqp.EventAccountDeleted:
		n, err := w.exporter.DeleteAccount(ctx, ev.AccountID)
		if err != nil {
			return fmt.Errorf("delete account %s rows: %w", ev.AccountID, err)
		}
		slog.InfoContext(ctx, "Removed mirrored account rows",
			ledgerlog.FieldAccountID, ev.AccountID,
			"rows", n,
			ledgerlog.FieldDeletedCount, ev.DeletedTransactions)

	default:
		slog.WarnContext(ctx, "Ignoring unknown ledger event", ledgerlog.FieldEventType, ev.Type)
	}
	return nil
}

// BackfillResult counts the rows a Backfill changed.
type BackfillResult struct {
	Appended int
	Removed  int
}

// Backfill brings the mirror in line with the store: rows missing from the
// sheet are appended and rows whose transaction no longer exists are removed.
// It recovers from events lost while the worker was down.
func (w *MirrorWorker) Backfill(ctx context.Context) (BackfillResult, error) {
	var res BackfillResult
	if w.store == nil {
		return res, fmt.Errorf("backfill requires a store")
	}

	txs, err := w.store.ListTransactions(ctx, storage.TransactionFilter{})
	if err != nil {
		return res, fmt.Errorf("list transactions: %w", err)
	}
	ids, err := w.exporter.ExportedIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("list exported ids: %w", err)
	}

	exported := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		exported[id] = struct{}{}
	}
	live := make(map[string]struct{}, len(txs))

	// Oldest first so the sheet keeps chronological order.
	for i := len(txs) - 1; i >= 0; i-- {
		t := txs[i]
		live[t.ID] = struct{}{}
		if _, ok := exported[t.ID]; ok {
			continue
		}
		if _, err := w.exporter.Append(ctx, t); err != nil {
			return res, fmt.Errorf("append transaction %s: %w", t.ID, err)
		}
		res.Appended++
	}

	for _, id := range ids {
		if _, ok := live[id]; ok {
			continue
		}
		n, err := w.exporter.DeleteTransaction(ctx, id)
		if err != nil {
			return res, fmt.Errorf("delete transaction %s: %w", id, err)
		}
		res.Removed += n
	}

	slog.InfoContext(ctx, "Mirror backfill completed",
		ledgerlog.FieldComponent, ledgerlog.ComponentWorker,
		"transactions", len(txs),
		"appended", res.Appended,
		"removed", res.Removed)
	return res, nil
}

// DriftChecker is satisfied by *services.Reconciler.
type DriftChecker interface {
	Check(ctx context.Context) ([]core.BalanceDrift, error)
}

// RunReconcileLoop checks balances every interval until ctx is done. Failed
// checks are logged and retried on the next tick.
func RunReconcileLoop(ctx context.Context, checker DriftChecker, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			drifts, err := checker.Check(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "Periodic reconcile failed",
					ledgerlog.FieldComponent, ledgerlog.ComponentReconcile,
					ledgerlog.FieldError, err)
				continue
			}
			if len(drifts) == 0 {
				slog.DebugContext(ctx, "Balances reconciled", ledgerlog.FieldComponent, ledgerlog.ComponentReconcile)
			}
		}
	}
}
