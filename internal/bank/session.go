// internal/bank/session.go
//
// Session Store：登入產生不可猜測的 session id，登出刪除；沒有過期時間。
// 同一帳戶可同時擁有多個 session。

package bank

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const sessionIDBytes = 16 // 128 bits，輸出為 32 位小寫十六進位

func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// validSessionID 只接受 newSessionID 的輸出格式；其他字串不會觸及儲存層。
func validSessionID(id string) bool {
	if len(id) != 2*sessionIDBytes {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}

// shortID 用於日誌，避免完整 session id 外洩。
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Login 驗證憑證並建立 session。
// 帳戶不存在與 PIN 錯誤一律回傳空字串，呼叫端無法區分；error 只代表儲存層失敗。
func (b *Bank) Login(ctx context.Context, account, pin string) (string, error) {
	ok, err := b.VerifyCredentials(ctx, account, pin)
	if err != nil {
		return "", err
	}
	if !ok {
		b.log(ctx).Debug("login rejected")
		return "", nil
	}

	id, err := newSessionID()
	if err != nil {
		return "", internal(err)
	}
	if err := b.sessions.Put(ctx, id, account); err != nil {
		return "", internal(err)
	}
	b.log(ctx).Info("login", "account", account, "session", shortID(id))
	return id, nil
}

// Logout 刪除 session；不存在時回傳 false。
func (b *Bank) Logout(ctx context.Context, sessionID string) (bool, error) {
	if !validSessionID(sessionID) {
		return false, nil
	}
	existed, err := b.sessions.Delete(ctx, sessionID)
	if err != nil {
		return false, internal(err)
	}
	if existed {
		b.log(ctx).Info("logout", "session", shortID(sessionID))
	}
	return existed, nil
}

// ResolveAccount 回傳 session 對應的帳號；未知、已刪除或格式錯誤時 ok 為 false。
func (b *Bank) ResolveAccount(ctx context.Context, sessionID string) (string, bool, error) {
	if !validSessionID(sessionID) {
		return "", false, nil
	}
	account, ok, err := b.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", false, internal(err)
	}
	return account, ok, nil
}

// IsAdmin 回報 session 是否屬於管理者帳戶。
func (b *Bank) IsAdmin(ctx context.Context, sessionID string) (bool, error) {
	account, ok, err := b.ResolveAccount(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return ok && account == AdminAccount, nil
}

// requireSession 解析 session，失敗時回傳 ErrInvalidSession。
func (b *Bank) requireSession(ctx context.Context, sessionID string) (string, error) {
	account, ok, err := b.ResolveAccount(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrInvalidSession
	}
	return account, nil
}
