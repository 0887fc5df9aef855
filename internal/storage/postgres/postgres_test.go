//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"ledgerbank/internal/storage"
	"ledgerbank/internal/storage/postgres"
)

// setupStore 啟動 PostgreSQL 容器並回傳已套用 schema 的 Store。
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("bank"),
		tcpostgres.WithUsername("bank"),
		tcpostgres.WithPassword("bank"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := postgres.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresLedger(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	require.NoError(t, s.CreateAccount(ctx, "12345678", "1234"))
	assert.ErrorIs(t, s.CreateAccount(ctx, "12345678", "1234"), storage.ErrAccountExists)

	pin, ok, err := s.PIN(ctx, "12345678")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1234", pin)

	_, err = s.Records(ctx, "99999999")
	assert.ErrorIs(t, err, storage.ErrNoLedger)

	now := time.Now().Truncate(time.Second)
	created := storage.Record{Time: now, Type: storage.TxAccountCreated, Amount: decimal.Zero, Balance: decimal.Zero}
	deposit := storage.Record{Time: now, Type: storage.TxDeposit,
		Amount: decimal.RequireFromString("100.00"), Balance: decimal.RequireFromString("100.00")}
	require.NoError(t, s.Append(ctx, "12345678", created))
	require.NoError(t, s.Append(ctx, "12345678", deposit))

	recs, err := s.Records(ctx, "12345678")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.True(t, recs[1].Equal(deposit))

	assert.ErrorIs(t, s.DropLast(ctx, "12345678", created), storage.ErrTailMismatch)
	require.NoError(t, s.DropLast(ctx, "12345678", deposit))
	recs, err = s.Records(ctx, "12345678")
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	accounts, err := s.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"12345678"}, accounts)
}

func TestPostgresSessionsAndJournal(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	id := "0123456789abcdef0123456789abcdef"
	require.NoError(t, s.Put(ctx, id, "12345678"))
	acct, ok, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "12345678", acct)

	existed, err := s.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, existed)
	existed, err = s.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, existed)

	it := storage.Intent{
		ID: uuid.New(), From: "12345678", To: "87654321",
		Amount: decimal.RequireFromString("5.25"), FromSeq: 3, ToSeq: 1,
		Created: time.Now().Truncate(time.Second),
	}
	require.NoError(t, s.Begin(ctx, it))
	pending, err := s.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, it.ID, pending[0].ID)
	assert.True(t, it.Amount.Equal(pending[0].Amount))

	require.NoError(t, s.Commit(ctx, it.ID))
	pending, err = s.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
