// internal/storage/model.go
//
// 定義「資料持久化層 (storage layer)」的結構模型。
// 帳本 (ledger) 為逐筆追加的紀錄序列，餘額永遠由最後一筆紀錄決定，不另存欄位。
// 本檔只描述資料「長什麼樣子」，不含任何商業規則（授權、餘額檢查皆在 bank 層）。
package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeLayout 為帳本時間戳的文字格式（秒級精度，本地時區）。
const TimeLayout = "2006-01-02 15:04:05"

// TxType 為帳本紀錄類型，字串值即寫入 CSV / 資料庫的內容。
type TxType string

const (
	TxDeposit        TxType = "DEPOSIT"
	TxDebit          TxType = "DEBIT"
	TxTransferIn     TxType = "TRANSFER_IN"
	TxTransferOut    TxType = "TRANSFER_OUT"
	TxAccountCreated TxType = "ACCOUNT_CREATED"
)

// Valid 回報 t 是否為已知的紀錄類型。
func (t TxType) Valid() bool {
	switch t {
	case TxDeposit, TxDebit, TxTransferIn, TxTransferOut, TxAccountCreated:
		return true
	}
	return false
}

// Record 為帳本中的一筆紀錄。
// Balance 為追加當下計算出的結果餘額（running total），之後不再重算。
type Record struct {
	Time    time.Time
	Type    TxType
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

// Equal 比對兩筆紀錄是否相同（時間以秒為單位比較，金額以數值比較）。
// 用於轉帳回滾時確認要移除的尾端紀錄正是剛寫入的那一筆。
func (r Record) Equal(o Record) bool {
	return r.Type == o.Type &&
		r.Time.Truncate(time.Second).Equal(o.Time.Truncate(time.Second)) &&
		r.Amount.Equal(o.Amount) &&
		r.Balance.Equal(o.Balance)
}

// Intent 為轉帳的預寫意圖 (write-ahead intent)。
// 在兩邊帳本追加任何紀錄之前寫入，完成（或回滾）後才移除；
// 程序中途崩潰時，殘留的 Intent 讓啟動時的復原流程得以補齊入帳。
type Intent struct {
	ID      uuid.UUID
	From    string
	To      string
	Amount  decimal.Decimal
	FromSeq int // 寫入 TRANSFER_OUT 前來源帳本的紀錄數
	ToSeq   int // 寫入 TRANSFER_IN 前目標帳本的紀錄數
	Created time.Time
}
