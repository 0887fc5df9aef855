// internal/bank/account.go
//
// 帳戶儲存 (Account Store)：帳號／PIN 格式驗證、帳戶建立與憑證比對。

package bank

import (
	"context"
	"errors"

	"ledgerbank/internal/storage"
)

const (
	// AdminAccount / AdminPIN 為啟動時自動佈建的管理者帳戶。
	AdminAccount = "00000000"
	AdminPIN     = "9999"

	accountNumberLen = 8
	pinLen           = 4
)

// validateAccountNumber 先檢查長度再檢查字元，順序不可調換。
func validateAccountNumber(account string) error {
	if len(account) != accountNumberLen {
		return ErrAccountNumberLength
	}
	if !allDigits(account) {
		return ErrAccountNumberDigits
	}
	return nil
}

func validatePIN(pin string) error {
	if len(pin) != pinLen {
		return ErrPinLength
	}
	if !allDigits(pin) {
		return ErrPinDigits
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// AccountExists 回報帳戶是否已建立；格式不符的帳號一律視為不存在，不觸及儲存層。
func (b *Bank) AccountExists(ctx context.Context, account string) (bool, error) {
	if validateAccountNumber(account) != nil {
		return false, nil
	}
	ok, err := b.ledger.AccountExists(ctx, account)
	if err != nil {
		return false, internal(err)
	}
	return ok, nil
}

// CreateAccount 建立客戶帳戶（僅管理者）。
// 驗證順序：管理者身分 → 帳號格式 → PIN 格式 → 是否已存在。
// 成功時寫入 PIN、建立空帳本並追加一筆 ACCOUNT_CREATED（金額 0、餘額 0）。
func (b *Bank) CreateAccount(ctx context.Context, sessionID, account, pin string) error {
	admin, err := b.IsAdmin(ctx, sessionID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrUnauthorized
	}
	if err := validateAccountNumber(account); err != nil {
		return err
	}
	if err := validatePIN(pin); err != nil {
		return err
	}

	unlock := b.locks.lock(account)
	defer unlock()

	exists, err := b.AccountExists(ctx, account)
	if err != nil {
		return err
	}
	if exists {
		return ErrAccountExists
	}
	if err := b.ledger.CreateAccount(ctx, account, pin); err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			return ErrAccountExists
		}
		return internal(err)
	}
	if _, err := b.appendRecord(ctx, account, storage.TxAccountCreated, zero); err != nil {
		return err
	}

	b.log(ctx).Info("account created", "account", account)
	return nil
}

// VerifyCredentials 比對 PIN。
// 注意：PIN 以明文儲存並以一般字串比較，非常數時間；此為已知的安全缺口。
func (b *Bank) VerifyCredentials(ctx context.Context, account, pin string) (bool, error) {
	if validateAccountNumber(account) != nil {
		return false, nil
	}
	exists, err := b.AccountExists(ctx, account)
	if err != nil || !exists {
		return false, err
	}
	stored, ok, err := b.ledger.PIN(ctx, account)
	if err != nil {
		return false, internal(err)
	}
	return ok && stored == pin, nil
}

// ensureAdmin 佈建管理者帳戶：目錄、PIN 與空帳本（不寫 ACCOUNT_CREATED）。
func (b *Bank) ensureAdmin(ctx context.Context) error {
	exists, err := b.AccountExists(ctx, AdminAccount)
	if err != nil || exists {
		return err
	}
	if err := b.ledger.CreateAccount(ctx, AdminAccount, AdminPIN); err != nil && !errors.Is(err, storage.ErrAccountExists) {
		return internal(err)
	}
	b.log(ctx).Info("admin account provisioned", "account", AdminAccount)
	return nil
}
