// internal/bank/bank.go

// Package bank 定義核心商業邏輯：登入／登出、帳戶建立、存款、提款、轉帳、對帳單與全行狀態。
// 帳戶狀態完全由逐筆追加的帳本推導；儲存以 storage 介面注入，於程序啟動時建立一次。
// 每個帳戶一把互斥鎖，涵蓋「讀餘額 → 檢查 → 追加」，轉帳依帳號順序同時持有兩把鎖。
// 金額以 decimal 表示並固定四捨五入至分，避免浮點誤差。
package bank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ledgerbank/internal/appcontext"
	"ledgerbank/internal/storage"
)

// DefaultStatementLines 為對帳單預設顯示的紀錄筆數。
const DefaultStatementLines = 10

// Bank 為聚合根 (Aggregate Root)：
// - ledger：帳戶、PIN 與帳本。
// - sessions：session id → 帳號。
// - journal：轉帳預寫意圖。
// - locks：每帳戶互斥鎖。
type Bank struct {
	ledger   storage.Ledger
	sessions storage.Sessions
	journal  storage.Journal
	locks    *accountLocks
	clock    func() time.Time
}

// Option 調整 Bank 的建構參數。
type Option func(*Bank)

// WithClock 替換時間來源（測試用）。
func WithClock(now func() time.Time) Option {
	return func(b *Bank) { b.clock = now }
}

// New 組裝 Bank 並佈建管理者帳戶（若不存在）。
func New(ctx context.Context, ledger storage.Ledger, sessions storage.Sessions, journal storage.Journal, opts ...Option) (*Bank, error) {
	b := &Bank{
		ledger:   ledger,
		sessions: sessions,
		journal:  journal,
		locks:    newAccountLocks(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.ensureAdmin(ctx); err != nil {
		return nil, fmt.Errorf("bank: provision admin: %w", err)
	}
	return b, nil
}

func (b *Bank) now() time.Time {
	return b.clock().Truncate(time.Second)
}

func (b *Bank) log(ctx context.Context) *slog.Logger {
	return appcontext.LoggerFromContext(ctx).With("component", "bank")
}

// Deposit 存款：session 有效、金額 > 0 且入帳後餘額不超過 MaxAmount，追加一筆 DEPOSIT。
func (b *Bank) Deposit(ctx context.Context, sessionID string, amount decimal.Decimal) error {
	account, err := b.requireSession(ctx, sessionID)
	if err != nil {
		return err
	}
	amount, err = normalizeAmount(amount)
	if err != nil {
		return err
	}

	unlock := b.locks.lock(account)
	defer unlock()

	balance, err := b.CurrentBalance(ctx, account)
	if err != nil {
		return err
	}
	if err := checkCredit(balance, amount); err != nil {
		return err
	}

	_, err = b.appendRecord(ctx, account, storage.TxDeposit, amount)
	return err
}

// Debit 提款：金額 > 0 且不得超過目前餘額；失敗時不寫入任何紀錄。
func (b *Bank) Debit(ctx context.Context, sessionID string, amount decimal.Decimal) error {
	account, err := b.requireSession(ctx, sessionID)
	if err != nil {
		return err
	}
	amount, err = normalizeAmount(amount)
	if err != nil {
		return err
	}

	unlock := b.locks.lock(account)
	defer unlock()

	balance, err := b.CurrentBalance(ctx, account)
	if err != nil {
		return err
	}
	if amount.GreaterThan(balance) {
		b.log(ctx).Debug("debit rejected", "account", account, "reason", ErrInsufficientFunds.Msg)
		return ErrInsufficientFunds
	}

	_, err = b.appendRecord(ctx, account, storage.TxDebit, amount)
	return err
}

// Transfer 由 session 帳戶轉帳至 to。
// 檢查順序：session → 金額 → 同帳戶 → 目標存在 → 餘額。
// 目標帳號格式不符（例如 "./11111111"）一律視為目標不存在。
// 流程：寫入預寫意圖 → 來源 TRANSFER_OUT → 目標 TRANSFER_IN → 移除意圖。
// 目標追加失敗時移除來源尾端的 TRANSFER_OUT；若連移除都失敗，保留意圖交由 Recover 補齊入帳。
func (b *Bank) Transfer(ctx context.Context, sessionID, to string, amount decimal.Decimal) error {
	from, err := b.requireSession(ctx, sessionID)
	if err != nil {
		return err
	}
	amount, err = normalizeAmount(amount)
	if err != nil {
		return err
	}
	if to == from {
		return ErrSameAccount
	}
	// 管理者帳本不在全行狀態內，轉入將使資金從總額中消失。
	if to == AdminAccount || validateAccountNumber(to) != nil {
		return ErrDestinationNotFound
	}
	exists, err := b.AccountExists(ctx, to)
	if err != nil {
		return err
	}
	if !exists {
		return ErrDestinationNotFound
	}

	unlock := b.locks.lock(from, to)
	defer unlock()

	fromSeq, balance, err := b.tail(ctx, from)
	if err != nil {
		return err
	}
	if amount.GreaterThan(balance) {
		b.log(ctx).Debug("transfer rejected", "from", from, "to", to, "reason", ErrInsufficientFunds.Msg)
		return ErrInsufficientFunds
	}
	toSeq, toBalance, err := b.tail(ctx, to)
	if err != nil {
		return err
	}
	if err := checkCredit(toBalance, amount); err != nil {
		return err
	}

	intent := storage.Intent{
		ID:      uuid.New(),
		From:    from,
		To:      to,
		Amount:  amount,
		FromSeq: fromSeq,
		ToSeq:   toSeq,
		Created: b.now(),
	}
	if err := b.journal.Begin(ctx, intent); err != nil {
		return internal(err)
	}

	out, err := b.appendRecord(ctx, from, storage.TxTransferOut, amount)
	if err != nil {
		b.commitIntent(ctx, intent.ID)
		return err
	}
	if _, err := b.appendRecord(ctx, to, storage.TxTransferIn, amount); err != nil {
		if dropErr := b.ledger.DropLast(ctx, from, out); dropErr != nil {
			b.log(ctx).Error("transfer rollback failed; intent left for recovery",
				"intent", intent.ID.String(), "error", dropErr)
			return err
		}
		b.commitIntent(ctx, intent.ID)
		b.log(ctx).Warn("transfer rolled back", "intent", intent.ID.String(), "error", err)
		return err
	}
	b.commitIntent(ctx, intent.ID)
	return nil
}

// commitIntent 移除意圖；失敗只記錄，Recover 會發現雙邊紀錄皆已存在而直接清除。
func (b *Bank) commitIntent(ctx context.Context, id uuid.UUID) {
	if err := b.journal.Commit(ctx, id); err != nil {
		b.log(ctx).Warn("journal commit failed", "intent", id.String(), "error", err)
	}
}

// Statement 回傳對帳單：標題列加上最近 maxLines 筆紀錄（維持原始時間順序）。
// 管理者的對帳單即全行狀態報表。maxLines <= 0 時只回傳標題列。
func (b *Bank) Statement(ctx context.Context, sessionID string, maxLines int) (string, error) {
	account, err := b.requireSession(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if account == AdminAccount {
		return b.BankStatus(ctx)
	}

	unlock := b.locks.lock(account)
	recs, err := b.ledger.Records(ctx, account)
	unlock()
	if errors.Is(err, storage.ErrNoLedger) {
		return "", ErrNoStatement
	}
	if err != nil {
		return "", internal(err)
	}

	start := len(recs)
	if maxLines > 0 {
		start = max(len(recs)-maxLines, 0)
	}

	var sb strings.Builder
	sb.WriteString(storage.StatementHeader)
	sb.WriteByte('\n')
	for _, r := range recs[start:] {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// BankStatus 列出所有非管理者帳戶、餘額、帳戶數與總額（依帳號排序）。
func (b *Bank) BankStatus(ctx context.Context) (string, error) {
	accounts, err := b.ledger.Accounts(ctx)
	if err != nil {
		return "", internal(err)
	}

	var sb strings.Builder
	sb.WriteString("Bank Status Report\n")
	sb.WriteString("==================\n")

	total := zero
	count := 0
	for _, a := range accounts {
		if a == AdminAccount {
			continue
		}
		unlock := b.locks.lock(a)
		bal, err := b.CurrentBalance(ctx, a)
		unlock()
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "Account %s: %s\n", a, bal.StringFixed(2))
		total = total.Add(bal)
		count++
	}

	sb.WriteString("==================\n")
	fmt.Fprintf(&sb, "Total Accounts: %d\n", count)
	fmt.Fprintf(&sb, "Total Holdings: %s\n", total.StringFixed(2))
	return sb.String(), nil
}

// ListAccounts 僅管理者可呼叫，回傳全行狀態。
func (b *Bank) ListAccounts(ctx context.Context, sessionID string) (string, error) {
	admin, err := b.IsAdmin(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !admin {
		return "", ErrUnauthorized
	}
	return b.BankStatus(ctx)
}
