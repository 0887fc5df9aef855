// internal/storage/filestore/filestore.go
//
// Package filestore 以檔案系統實作 storage.Ledger / Sessions / Journal。
// 目錄配置：
//
//	<dir>/accounts/<帳號>/pin.txt        PIN（明文單行）
//	<dir>/accounts/<帳號>/statement.csv  逐筆追加的帳本
//	<dir>/sessions/<session id>.txt      session → 帳號
//	<dir>/journal/<intent id>.csv        尚未完成的轉帳意圖
//
// 帳戶是否存在由帳戶目錄是否存在決定。
package filestore

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ledgerbank/internal/storage"
)

const (
	accountsDir = "accounts"
	sessionsDir = "sessions"
	journalDir  = "journal"

	pinFile       = "pin.txt"
	statementFile = "statement.csv"

	dirPerm  = 0o755
	filePerm = 0o644

	accountNumberLen = 8
)

// Store 為檔案後端；同一 dir 可被多個 Store 共用，但並發寫入的序列化由 bank 層負責。
type Store struct {
	dir string
}

var (
	_ storage.Ledger   = (*Store)(nil)
	_ storage.Sessions = (*Store)(nil)
	_ storage.Journal  = (*Store)(nil)
)

// New 於 dir 下建立必要的子目錄並回傳 Store。
func New(dir string) (*Store, error) {
	for _, sub := range []string{accountsDir, sessionsDir, journalDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), dirPerm); err != nil {
			return nil, fmt.Errorf("filestore: prepare %s: %w", sub, err)
		}
	}
	return &Store{dir: dir}, nil
}

// Dir 回傳資料根目錄。
func (s *Store) Dir() string { return s.dir }

// validAccount 只接受 8 位數字；其他名稱（"."、".."、含分隔符號者）不得拼進路徑。
func validAccount(account string) bool {
	if len(account) != accountNumberLen {
		return false
	}
	for i := 0; i < len(account); i++ {
		if account[i] < '0' || account[i] > '9' {
			return false
		}
	}
	return true
}

func (s *Store) accountDir(account string) (string, error) {
	if !validAccount(account) {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidAccount, account)
	}
	return filepath.Join(s.dir, accountsDir, account), nil
}

func (s *Store) pinPath(account string) (string, error) {
	dir, err := s.accountDir(account)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, pinFile), nil
}

func (s *Store) statementPath(account string) (string, error) {
	dir, err := s.accountDir(account)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, statementFile), nil
}

// AccountExists 對格式不符的帳號回傳 false。
func (s *Store) AccountExists(_ context.Context, account string) (bool, error) {
	dir, err := s.accountDir(account)
	if err != nil {
		return false, nil
	}
	fi, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("filestore: stat account %s: %w", account, err)
	}
	return fi.IsDir(), nil
}

// CreateAccount 以 os.Mkdir 建立帳戶目錄；目錄已存在即代表帳戶已存在。
func (s *Store) CreateAccount(_ context.Context, account, pin string) error {
	dir, err := s.accountDir(account)
	if err != nil {
		return err
	}
	if err := os.Mkdir(dir, dirPerm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return storage.ErrAccountExists
		}
		return fmt.Errorf("filestore: create account %s: %w", account, err)
	}
	if err := os.WriteFile(filepath.Join(dir, pinFile), []byte(pin), filePerm); err != nil {
		return fmt.Errorf("filestore: write pin %s: %w", account, err)
	}
	if err := os.WriteFile(filepath.Join(dir, statementFile), nil, filePerm); err != nil {
		return fmt.Errorf("filestore: create statement %s: %w", account, err)
	}
	return nil
}

func (s *Store) PIN(_ context.Context, account string) (string, bool, error) {
	path, err := s.pinPath(account)
	if err != nil {
		return "", false, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("filestore: read pin %s: %w", account, err)
	}
	return firstLine(b), true, nil
}

func (s *Store) Append(_ context.Context, account string, rec storage.Record) error {
	path, err := s.statementPath(account)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("filestore: open statement %s: %w", account, err)
	}
	if err := storage.WriteRecords(f, rec); err != nil {
		f.Close()
		return fmt.Errorf("filestore: append %s: %w", account, err)
	}
	return f.Close()
}

func (s *Store) Records(_ context.Context, account string) ([]storage.Record, error) {
	path, err := s.statementPath(account)
	if err != nil {
		return nil, storage.ErrNoLedger
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNoLedger
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: open statement %s: %w", account, err)
	}
	defer f.Close()

	recs, err := storage.ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("filestore: %s: %w", account, err)
	}
	return recs, nil
}

// DropLast 以原子寫入改寫帳本，移除尾端紀錄。
func (s *Store) DropLast(ctx context.Context, account string, rec storage.Record) error {
	recs, err := s.Records(ctx, account)
	if err != nil {
		return err
	}
	if len(recs) == 0 || !recs[len(recs)-1].Equal(rec) {
		return storage.ErrTailMismatch
	}

	var buf bytes.Buffer
	if err := storage.WriteRecords(&buf, recs[:len(recs)-1]...); err != nil {
		return fmt.Errorf("filestore: encode %s: %w", account, err)
	}
	path, err := s.statementPath(account)
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("filestore: rewrite %s: %w", account, err)
	}
	return nil
}

func (s *Store) Accounts(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, accountsDir))
	if err != nil {
		return nil, fmt.Errorf("filestore: list accounts: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && validAccount(e.Name()) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func firstLine(b []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(b))
	if sc.Scan() {
		return strings.TrimRight(sc.Text(), "\r")
	}
	return ""
}
