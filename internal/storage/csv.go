// internal/storage/csv.go
//
// 帳本與轉帳意圖的 CSV 列編解碼。
// 帳本列格式：timestamp,TYPE,amount,balance（金額固定兩位小數）。
// 檔案後端直接以此格式落地；對帳單輸出也沿用同一格式。
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatementHeader 為對帳單的標題列。
const StatementHeader = "timestamp,type,amount,balance"

const (
	recordFields = 4
	intentFields = 7
)

// Row 回傳紀錄的 CSV 欄位。
func (r Record) Row() []string {
	return []string{
		r.Time.Format(TimeLayout),
		string(r.Type),
		r.Amount.StringFixed(2),
		r.Balance.StringFixed(2),
	}
}

// String 回傳紀錄在帳本檔案中的單行文字（不含換行）。
func (r Record) String() string {
	return strings.Join(r.Row(), ",")
}

// ParseRecord 解析一列帳本 CSV。
func ParseRecord(row []string) (Record, error) {
	var rec Record
	if len(row) != recordFields {
		return rec, fmt.Errorf("ledger row: want %d fields, got %d", recordFields, len(row))
	}
	ts, err := time.ParseInLocation(TimeLayout, row[0], time.Local)
	if err != nil {
		return rec, fmt.Errorf("ledger row: timestamp %q: %w", row[0], err)
	}
	typ := TxType(row[1])
	if !typ.Valid() {
		return rec, fmt.Errorf("ledger row: unknown type %q", row[1])
	}
	amount, err := decimal.NewFromString(row[2])
	if err != nil {
		return rec, fmt.Errorf("ledger row: amount %q: %w", row[2], err)
	}
	balance, err := decimal.NewFromString(row[3])
	if err != nil {
		return rec, fmt.Errorf("ledger row: balance %q: %w", row[3], err)
	}
	return Record{Time: ts, Type: typ, Amount: amount, Balance: balance}, nil
}

// ReadRecords 讀取整份帳本；空檔回傳 nil。
func ReadRecords(rd io.Reader) ([]Record, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = recordFields

	var out []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger: %w", err)
		}
		rec, err := ParseRecord(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// WriteRecords 依序寫出紀錄，每筆一行。
func WriteRecords(w io.Writer, recs ...Record) error {
	cw := csv.NewWriter(w)
	for _, r := range recs {
		if err := cw.Write(r.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Row 回傳意圖的 CSV 欄位。
func (it Intent) Row() []string {
	return []string{
		it.ID.String(),
		it.From,
		it.To,
		it.Amount.StringFixed(2),
		strconv.Itoa(it.FromSeq),
		strconv.Itoa(it.ToSeq),
		it.Created.Format(time.RFC3339),
	}
}

// ParseIntent 解析一列轉帳意圖 CSV。
func ParseIntent(row []string) (Intent, error) {
	var it Intent
	if len(row) != intentFields {
		return it, fmt.Errorf("intent row: want %d fields, got %d", intentFields, len(row))
	}
	id, err := uuid.Parse(row[0])
	if err != nil {
		return it, fmt.Errorf("intent row: id: %w", err)
	}
	amount, err := decimal.NewFromString(row[3])
	if err != nil {
		return it, fmt.Errorf("intent row: amount: %w", err)
	}
	fromSeq, err := strconv.Atoi(row[4])
	if err != nil {
		return it, fmt.Errorf("intent row: from seq: %w", err)
	}
	toSeq, err := strconv.Atoi(row[5])
	if err != nil {
		return it, fmt.Errorf("intent row: to seq: %w", err)
	}
	created, err := time.Parse(time.RFC3339, row[6])
	if err != nil {
		return it, fmt.Errorf("intent row: created: %w", err)
	}
	return Intent{
		ID:      id,
		From:    row[1],
		To:      row[2],
		Amount:  amount,
		FromSeq: fromSeq,
		ToSeq:   toSeq,
		Created: created,
	}, nil
}
