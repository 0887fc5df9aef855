// internal/storage/store.go
//
// 儲存能力介面：Ledger（帳戶與帳本）、Sessions（登入工作階段）、Journal（轉帳預寫日誌）。
// bank 層只依賴這三個介面；檔案、PostgreSQL、Redis 各自實作其中一部分或全部，
// 於程序啟動時組裝一次後注入，不使用任何隱含的全域狀態。
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrAccountExists 代表帳戶目錄／資料列已存在。
	ErrAccountExists = errors.New("storage: account already exists")

	// ErrNoLedger 代表找不到該帳戶的帳本。
	ErrNoLedger = errors.New("storage: ledger not found")

	// ErrInvalidAccount 代表帳號不是 8 位數字，不得作為路徑或鍵值使用。
	ErrInvalidAccount = errors.New("storage: invalid account number")

	// ErrTailMismatch 代表 DropLast 時帳本尾端不是預期的那筆紀錄。
	ErrTailMismatch = errors.New("storage: ledger tail does not match")
)

// Ledger 管理帳戶存在性、PIN 與逐筆追加的帳本。
type Ledger interface {
	AccountExists(ctx context.Context, account string) (bool, error)
	// CreateAccount 建立帳戶並寫入 PIN 與空帳本；已存在時回傳 ErrAccountExists。
	CreateAccount(ctx context.Context, account, pin string) error
	PIN(ctx context.Context, account string) (pin string, ok bool, err error)
	Append(ctx context.Context, account string, rec Record) error
	// Records 依寫入順序回傳完整帳本；帳本不存在時回傳 ErrNoLedger。
	Records(ctx context.Context, account string) ([]Record, error)
	// DropLast 僅在尾端紀錄等於 rec 時移除它，否則回傳 ErrTailMismatch。
	DropLast(ctx context.Context, account string, rec Record) error
	// Accounts 回傳所有已建立的帳號（含管理者），依字典序排序。
	Accounts(ctx context.Context) ([]string, error)
}

// Sessions 保存 session id → 帳號 的對應，沒有過期時間。
type Sessions interface {
	Put(ctx context.Context, sessionID, account string) error
	Get(ctx context.Context, sessionID string) (account string, ok bool, err error)
	Delete(ctx context.Context, sessionID string) (existed bool, err error)
}

// Journal 保存尚未完成的轉帳意圖。
type Journal interface {
	Begin(ctx context.Context, it Intent) error
	// Commit 移除意圖；不存在時視為成功。
	Commit(ctx context.Context, id uuid.UUID) error
	// Pending 依建立時間回傳所有殘留意圖。
	Pending(ctx context.Context) ([]Intent, error)
}
