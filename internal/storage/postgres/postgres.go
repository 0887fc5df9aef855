// internal/storage/postgres/postgres.go
//
// Package postgres 以 PostgreSQL（database/sql + lib/pq）實作 storage.Ledger / Sessions / Journal。
// 金額欄位為 numeric(20,2)，上限與 bank.MaxAmount 一致。
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ledgerbank/internal/storage"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    account_number text PRIMARY KEY,
    pin text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ledger_records (
    id bigserial PRIMARY KEY,
    account_number text NOT NULL REFERENCES accounts(account_number),
    recorded_at timestamptz NOT NULL,
    type text NOT NULL,
    amount numeric(20,2) NOT NULL,
    balance numeric(20,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS ledger_records_account_idx
ON ledger_records (account_number, id);

CREATE TABLE IF NOT EXISTS sessions (
    session_id text PRIMARY KEY,
    account_number text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transfer_intents (
    id uuid PRIMARY KEY,
    from_account text NOT NULL,
    to_account text NOT NULL,
    amount numeric(20,2) NOT NULL,
    from_seq integer NOT NULL,
    to_seq integer NOT NULL,
    created_at timestamptz NOT NULL
);
`

type Store struct {
	db *sql.DB
}

var (
	_ storage.Ledger   = (*Store)(nil)
	_ storage.Sessions = (*Store)(nil)
	_ storage.Journal  = (*Store)(nil)
)

// Open 連線、Ping 並套用 schema。
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) AccountExists(ctx context.Context, account string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`, account).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: account exists: %w", err)
	}
	return exists, nil
}

func (s *Store) CreateAccount(ctx context.Context, account, pin string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (account_number, pin) VALUES ($1, $2)`, account, pin)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return storage.ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("postgres: create account: %w", err)
	}
	return nil
}

func (s *Store) PIN(ctx context.Context, account string) (string, bool, error) {
	var pin string
	err := s.db.QueryRowContext(ctx,
		`SELECT pin FROM accounts WHERE account_number = $1`, account).Scan(&pin)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres: pin: %w", err)
	}
	return pin, true, nil
}

func (s *Store) Append(ctx context.Context, account string, rec storage.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ledger_records (account_number, recorded_at, type, amount, balance)
		 VALUES ($1, $2, $3, $4, $5)`,
		account, rec.Time, string(rec.Type), rec.Amount, rec.Balance)
	if err != nil {
		return fmt.Errorf("postgres: append: %w", err)
	}
	return nil
}

func (s *Store) Records(ctx context.Context, account string) ([]storage.Record, error) {
	exists, err := s.AccountExists(ctx, account)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, storage.ErrNoLedger
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT recorded_at, type, amount, balance
		 FROM ledger_records WHERE account_number = $1 ORDER BY id`, account)
	if err != nil {
		return nil, fmt.Errorf("postgres: records: %w", err)
	}
	defer rows.Close()

	var out []storage.Record
	for rows.Next() {
		var (
			rec storage.Record
			typ string
		)
		if err := rows.Scan(&rec.Time, &typ, &rec.Amount, &rec.Balance); err != nil {
			return nil, fmt.Errorf("postgres: scan record: %w", err)
		}
		rec.Type = storage.TxType(typ)
		rec.Time = rec.Time.In(time.Local)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate records: %w", err)
	}
	return out, nil
}

// DropLast 於交易內確認尾端資料列等於 rec 後將其刪除。
func (s *Store) DropLast(ctx context.Context, account string, rec storage.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	var (
		id   int64
		tail storage.Record
		typ  string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, recorded_at, type, amount, balance
		 FROM ledger_records WHERE account_number = $1
		 ORDER BY id DESC LIMIT 1 FOR UPDATE`, account).
		Scan(&id, &tail.Time, &typ, &tail.Amount, &tail.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrTailMismatch
	}
	if err != nil {
		return fmt.Errorf("postgres: select tail: %w", err)
	}
	tail.Type = storage.TxType(typ)
	if !tail.Equal(rec) {
		return storage.ErrTailMismatch
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: delete tail: %w", err)
	}
	return tx.Commit()
}

func (s *Store) Accounts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT account_number FROM accounts ORDER BY account_number`)
	if err != nil {
		return nil, fmt.Errorf("postgres: accounts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("postgres: scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Put(ctx context.Context, sessionID, account string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, account_number) VALUES ($1, $2)`, sessionID, account)
	if err != nil {
		return fmt.Errorf("postgres: put session: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, sessionID string) (string, bool, error) {
	var account string
	err := s.db.QueryRowContext(ctx,
		`SELECT account_number FROM sessions WHERE session_id = $1`, sessionID).Scan(&account)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres: get session: %w", err)
	}
	return account, true, nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return false, fmt.Errorf("postgres: delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("postgres: delete session: %w", err)
	}
	return n > 0, nil
}

func (s *Store) Begin(ctx context.Context, it storage.Intent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transfer_intents (id, from_account, to_account, amount, from_seq, to_seq, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		it.ID, it.From, it.To, it.Amount, it.FromSeq, it.ToSeq, it.Created)
	if err != nil {
		return fmt.Errorf("postgres: journal begin: %w", err)
	}
	return nil
}

func (s *Store) Commit(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transfer_intents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: journal commit: %w", err)
	}
	return nil
}

func (s *Store) Pending(ctx context.Context) ([]storage.Intent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_account, to_account, amount, from_seq, to_seq, created_at
		 FROM transfer_intents ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("postgres: pending: %w", err)
	}
	defer rows.Close()

	var out []storage.Intent
	for rows.Next() {
		var it storage.Intent
		if err := rows.Scan(&it.ID, &it.From, &it.To, &it.Amount, &it.FromSeq, &it.ToSeq, &it.Created); err != nil {
			return nil, fmt.Errorf("postgres: scan intent: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
