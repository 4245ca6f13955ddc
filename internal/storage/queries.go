package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"budget/internal/core"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so the same queries run
// inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries implements Tx over any DBTX. Placeholders are "?" which both the
// SQLite and MySQL drivers accept.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const (
	accountColumns     = `id, name, type, currency, balance_cents, opening_balance_cents, last4`
	transactionColumns = `id, account_id, amount_cents, currency, category, description, source, ts, day, month, raw_source`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (core.Account, error) {
	var (
		a     core.Account
		typ   string
		last4 sql.NullString
	)
	err := row.Scan(&a.ID, &a.Name, &typ, &a.Currency, &a.Balance.Cents, &a.OpeningBalance.Cents, &last4)
	if err != nil {
		return core.Account{}, err
	}
	a.Type = core.AccountType(typ)
	a.Last4 = last4.String
	return a, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t      core.Transaction
		source string
		ts     string
		raw    sql.NullString
	)
	err := row.Scan(&t.ID, &t.AccountID, &t.Amount.Cents, &t.Currency, &t.Category, &t.Description,
		&source, &ts, &t.Day, &t.Month, &raw)
	if err != nil {
		return core.Transaction{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	t.Timestamp = parsed
	t.Source = core.Source(source)
	t.RawSource = raw.String
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (q *Queries) GetAccount(ctx context.Context, id string) (core.Account, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrAccountNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (q *Queries) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []core.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

func (q *Queries) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (q *Queries) ListTransactions(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if f.Month != "" {
		where = append(where, "month = ?")
		args = append(args, f.Month)
	}
	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ts_unix_nano DESC, id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (q *Queries) InsertAccount(ctx context.Context, a core.Account) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Type), a.Currency, a.Balance.Cents, a.OpeningBalance.Cents, nullString(a.Last4))
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (q *Queries) InsertTransaction(ctx context.Context, t core.Transaction) error {
	if !core.ValidTimestamp(t.Timestamp) {
		return core.ErrInvalidTimestamp
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`, ts_unix_nano) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.Amount.Cents, t.Currency, t.Category, t.Description, string(t.Source),
		t.Timestamp.Format(time.RFC3339Nano), t.Day, t.Month, nullString(t.RawSource), t.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// IncrementBalance relies on the affected-row count to detect a missing
// account. The MySQL connection must report matched rows (clientFoundRows) so
// that a zero delta on an existing account is not mistaken for a miss.
//
// The bound check lives in the same statement, so the column never leaves
// int64 range (SQLite would otherwise silently promote it to REAL). A zero
// count on an existing account therefore means the bound was hit.
func (q *Queries) IncrementBalance(ctx context.Context, accountID string, delta core.Money) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = balance_cents + ?
		 WHERE id = ? AND balance_cents + ? BETWEEN ? AND ?`,
		delta.Cents, accountID, delta.Cents, -core.MaxBalanceCents, core.MaxBalanceCents)
	if err != nil {
		return fmt.Errorf("increment balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment balance rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := q.GetAccount(ctx, accountID); err != nil {
		return err
	}
	return core.ErrAmountOutOfRange
}

func (q *Queries) DeleteTransaction(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows: %w", err)
	}
	if n == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

func (q *Queries) DeleteTransactionsByAccount(ctx context.Context, accountID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = ?`, accountID)
	if err != nil {
		return 0, fmt.Errorf("delete account transactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete account transactions rows: %w", err)
	}
	return n, nil
}

func (q *Queries) DeleteAccount(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account rows: %w", err)
	}
	if n == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}
