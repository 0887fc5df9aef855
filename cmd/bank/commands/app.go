package commands

import (
	"context"
	"errors"
	"fmt"

	"ledgerbank/cmd/bank/output"
	"ledgerbank/internal/appcontext"
	"ledgerbank/internal/bank"
	"ledgerbank/internal/config"
	"ledgerbank/internal/storage"
	"ledgerbank/internal/storage/filestore"
	"ledgerbank/internal/storage/postgres"
	"ledgerbank/internal/storage/redisstore"
)

// backends 為依設定開啟的儲存後端與其釋放函式。
type backends struct {
	ledger   storage.Ledger
	sessions storage.Sessions
	journal  storage.Journal
	closers  []func() error
}

func (b *backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// openBackends 依 cfg 開啟帳本與 session 後端。
func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	log := appcontext.LoggerFromContext(ctx)
	be := &backends{}

	switch cfg.Store {
	case config.StorePostgres:
		pg, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		be.ledger, be.sessions, be.journal = pg, pg, pg
		be.closers = append(be.closers, pg.Close)
		log.Info("database ready")
	default:
		fs, err := filestore.New(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		be.ledger, be.sessions, be.journal = fs, fs, fs
		log.Info("file store ready", "dir", fs.Dir())
	}

	if cfg.Sessions == config.SessionsRedis {
		client, err := redisstore.Dial(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			_ = be.Close()
			return nil, err
		}
		be.sessions = redisstore.New(client)
		be.closers = append(be.closers, client.Close)
		log.Info("redis ready", "addr", cfg.RedisAddr)
	}
	return be, nil
}

// openBank 開啟後端並組裝 Bank；呼叫端負責 Close 回傳的 backends。
func openBank(ctx context.Context, cfg config.Config) (*bank.Bank, *backends, error) {
	be, err := openBackends(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	b, err := bank.New(ctx, be.ledger, be.sessions, be.journal)
	if err != nil {
		_ = be.Close()
		return nil, nil, err
	}
	return b, be, nil
}

// recoverTransfers 補齊上次中斷的轉帳，開始服務前呼叫。
func recoverTransfers(ctx context.Context, b *bank.Bank) error {
	n, err := b.Recover(ctx)
	if err != nil {
		return fmt.Errorf("recover transfers: %w", err)
	}
	if n > 0 {
		appcontext.LoggerFromContext(ctx).Warn("completed interrupted transfers", "count", n)
		output.Warning("Completed %d interrupted transfer(s) left by the last run", n)
	}
	return nil
}
