// internal/storage/storage_test.go
//
// 測試目標：帳本列編解碼與原子寫入。
// 確保寫出的 CSV 可完整讀回、格式固定兩位小數，且錯誤列會被拒絕而非靜默略過。
package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func rec(typ TxType, amount, balance string) Record {
	return Record{
		Time:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local),
		Type:    typ,
		Amount:  decimal.RequireFromString(amount),
		Balance: decimal.RequireFromString(balance),
	}
}

// TestRecordRoundTrip 驗證帳本 CSV 的寫出與讀回一致。
func TestRecordRoundTrip(t *testing.T) {
	in := []Record{
		rec(TxAccountCreated, "0", "0"),
		rec(TxDeposit, "100", "100"),
		rec(TxDebit, "30.5", "69.5"),
	}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, in...); err != nil {
		t.Fatalf("WriteRecords err=%v", err)
	}
	want := "2024-03-01 09:30:00,ACCOUNT_CREATED,0.00,0.00\n" +
		"2024-03-01 09:30:00,DEPOSIT,100.00,100.00\n" +
		"2024-03-01 09:30:00,DEBIT,30.50,69.50\n"
	if buf.String() != want {
		t.Fatalf("csv=%q want=%q", buf.String(), want)
	}

	out, err := ReadRecords(&buf)
	if err != nil {
		t.Fatalf("ReadRecords err=%v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len=%d want=%d", len(out), len(in))
	}
	for i := range in {
		if !in[i].Equal(out[i]) {
			t.Fatalf("record %d: got=%+v want=%+v", i, out[i], in[i])
		}
	}
}

func TestReadRecordsEmpty(t *testing.T) {
	out, err := ReadRecords(strings.NewReader(""))
	if err != nil || out != nil {
		t.Fatalf("empty ledger: out=%v err=%v", out, err)
	}
}

// TestParseRecordRejectsBadRows 驗證損壞的帳本列一律回傳錯誤。
func TestParseRecordRejectsBadRows(t *testing.T) {
	cases := map[string][]string{
		"short":     {"2024-03-01 09:30:00", "DEPOSIT", "1.00"},
		"timestamp": {"yesterday", "DEPOSIT", "1.00", "1.00"},
		"type":      {"2024-03-01 09:30:00", "REFUND", "1.00", "1.00"},
		"amount":    {"2024-03-01 09:30:00", "DEPOSIT", "x", "1.00"},
		"balance":   {"2024-03-01 09:30:00", "DEPOSIT", "1.00", ""},
	}
	for name, row := range cases {
		if _, err := ParseRecord(row); err == nil {
			t.Errorf("%s: expected error for %v", name, row)
		}
	}
}

func TestIntentRoundTrip(t *testing.T) {
	in := Intent{
		ID:      uuid.New(),
		From:    "12345678",
		To:      "87654321",
		Amount:  decimal.RequireFromString("200"),
		FromSeq: 2,
		ToSeq:   1,
		Created: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	out, err := ParseIntent(in.Row())
	if err != nil {
		t.Fatalf("ParseIntent err=%v", err)
	}
	if out.ID != in.ID || out.From != in.From || out.To != in.To ||
		!out.Amount.Equal(in.Amount) || out.FromSeq != 2 || out.ToSeq != 1 ||
		!out.Created.Equal(in.Created) {
		t.Fatalf("got=%+v want=%+v", out, in)
	}
}

// TestWriteFileAtomic 驗證原子寫入會取代原檔且不留下暫存檔。
func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statement.csv")

	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic err=%v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new\n" {
		t.Fatalf("content=%q want=%q", got, "new\n")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file should be gone, stat err=%v", err)
	}
}
