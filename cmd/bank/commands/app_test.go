package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbank/internal/bank"
	"ledgerbank/internal/config"
)

func TestOpenBankFileStore(t *testing.T) {
	ctx := context.Background()
	c := config.Config{DataDir: t.TempDir(), Store: config.StoreFile, Sessions: config.SessionsStore}

	b, be, err := openBank(ctx, c)
	require.NoError(t, err)
	defer be.Close()

	sid, err := b.Login(ctx, bank.AdminAccount, bank.AdminPIN)
	require.NoError(t, err)
	assert.Len(t, sid, 32)
	require.NoError(t, recoverTransfers(ctx, b))
}

func TestOpenBankRedisSessions(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := config.Config{
		DataDir:   t.TempDir(),
		Store:     config.StoreFile,
		Sessions:  config.SessionsRedis,
		RedisAddr: mr.Addr(),
	}

	b, be, err := openBank(ctx, c)
	require.NoError(t, err)
	defer be.Close()

	sid, err := b.Login(ctx, bank.AdminAccount, bank.AdminPIN)
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasSuffix(keys[0], sid))
	v, err := mr.Get(keys[0])
	require.NoError(t, err)
	assert.Equal(t, bank.AdminAccount, v)
}

func TestOpenBankRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c := config.Config{DataDir: t.TempDir(), Store: config.StoreFile, Sessions: config.SessionsRedis, RedisAddr: addr}
	_, _, err := openBank(context.Background(), c)
	assert.Error(t, err)
}
