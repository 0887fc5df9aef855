// internal/bank/ledger.go
//
// 帳本 (Transaction Log) 與餘額推導。
// 餘額永遠是「最後一筆紀錄的 Balance，若無紀錄則為 0」，不另存欄位。
// appendRecord 是唯一的變更原語；所有上層操作都是一次或兩次 appendRecord。

package bank

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ledgerbank/internal/storage"
)

var zero = decimal.Zero

// MaxAmount 為單筆金額與帳戶餘額的上限，對應 numeric(20,2)。
var MaxAmount = decimal.RequireFromString("999999999999999999.99")

const maxIntegerDigits = 18

// ParseAmount 解析使用者輸入的金額字串（例如 "100"、"30.50"、"-5"）。
// 只負責數值解析；正負與精度規則由各操作檢查。
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// normalizeAmount 四捨五入至分，並要求 0 < 結果 <= MaxAmount。
// 先以位數與指數判斷量級，極端指數（如 "1e2000000"）不會進入 Round。
func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return zero, ErrInvalidAmount
	}
	// 整數位數；<= -3 代表小於 0.001，四捨五入後必為 0
	digits := amount.NumDigits() + int(amount.Exponent())
	if digits > maxIntegerDigits {
		return zero, ErrAmountTooLarge
	}
	if digits <= -3 {
		return zero, ErrInvalidAmount
	}
	a := amount.Round(2)
	if !a.IsPositive() {
		return zero, ErrInvalidAmount
	}
	if a.GreaterThan(MaxAmount) {
		return zero, ErrAmountTooLarge
	}
	return a, nil
}

// checkCredit 確認入帳後餘額不超過 MaxAmount。
func checkCredit(balance, amount decimal.Decimal) error {
	if balance.Add(amount).GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}

// CurrentBalance 回傳帳戶目前餘額。
// 帳戶不存在時靜默回傳 0（呼叫端在此之前已確認存在性）。
func (b *Bank) CurrentBalance(ctx context.Context, account string) (decimal.Decimal, error) {
	_, bal, err := b.tail(ctx, account)
	return bal, err
}

// tail 回傳帳本紀錄數與最後餘額。
func (b *Bank) tail(ctx context.Context, account string) (int, decimal.Decimal, error) {
	recs, err := b.ledger.Records(ctx, account)
	if errors.Is(err, storage.ErrNoLedger) {
		return 0, zero, nil
	}
	if err != nil {
		return 0, zero, internal(err)
	}
	if len(recs) == 0 {
		return 0, zero, nil
	}
	return len(recs), recs[len(recs)-1].Balance, nil
}

// appendRecord 讀取目前餘額、計算新餘額並追加一筆紀錄。
// 呼叫端必須已持有該帳戶的鎖。
func (b *Bank) appendRecord(ctx context.Context, account string, typ storage.TxType, amount decimal.Decimal) (storage.Record, error) {
	_, current, err := b.tail(ctx, account)
	if err != nil {
		return storage.Record{}, err
	}
	rec := storage.Record{
		Time:    b.now(),
		Type:    typ,
		Amount:  amount,
		Balance: nextBalance(current, typ, amount),
	}
	if err := b.ledger.Append(ctx, account, rec); err != nil {
		return storage.Record{}, internal(err)
	}

	b.log(ctx).Info("ledger append",
		"account", account,
		"type", string(typ),
		"amount", amount.StringFixed(2),
		"balance", rec.Balance.StringFixed(2),
	)
	return rec, nil
}

// nextBalance 依紀錄類型計算新餘額。
func nextBalance(current decimal.Decimal, typ storage.TxType, amount decimal.Decimal) decimal.Decimal {
	switch typ {
	case storage.TxDeposit, storage.TxTransferIn:
		return current.Add(amount)
	case storage.TxDebit, storage.TxTransferOut:
		return current.Sub(amount)
	default:
		return zero
	}
}

// Replay 依序重放紀錄並確認每筆 Balance 與推導結果一致，回傳最終餘額。
func Replay(recs []storage.Record) (decimal.Decimal, error) {
	bal := zero
	for i, r := range recs {
		bal = nextBalance(bal, r.Type, r.Amount)
		if !bal.Equal(r.Balance) {
			return zero, fmt.Errorf("record %d (%s): stored balance %s, replay %s",
				i, r.Type, r.Balance.StringFixed(2), bal.StringFixed(2))
		}
	}
	return bal, nil
}
