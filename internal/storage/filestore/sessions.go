package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// session id 已由 bank 層驗證為 32 位小寫十六進位，可直接作為檔名。
func (s *Store) sessionPath(sessionID string) string {
	return filepath.Join(s.dir, sessionsDir, sessionID+".txt")
}

func (s *Store) Put(_ context.Context, sessionID, account string) error {
	if err := os.WriteFile(s.sessionPath(sessionID), []byte(account), filePerm); err != nil {
		return fmt.Errorf("filestore: write session: %w", err)
	}
	return nil
}

func (s *Store) Get(_ context.Context, sessionID string) (string, bool, error) {
	b, err := os.ReadFile(s.sessionPath(sessionID))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("filestore: read session: %w", err)
	}
	account := firstLine(b)
	return account, account != "", nil
}

func (s *Store) Delete(_ context.Context, sessionID string) (bool, error) {
	err := os.Remove(s.sessionPath(sessionID))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("filestore: remove session: %w", err)
	}
	return true, nil
}
