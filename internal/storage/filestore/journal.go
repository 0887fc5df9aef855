package filestore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"ledgerbank/internal/storage"
)

func (s *Store) intentPath(id uuid.UUID) string {
	return filepath.Join(s.dir, journalDir, id.String()+".csv")
}

// Begin 以原子寫入落地意圖，確保復原時不會讀到半行。
func (s *Store) Begin(_ context.Context, it storage.Intent) error {
	line := strings.Join(it.Row(), ",") + "\n"
	if err := storage.WriteFileAtomic(s.intentPath(it.ID), []byte(line), filePerm); err != nil {
		return fmt.Errorf("filestore: journal begin: %w", err)
	}
	return nil
}

func (s *Store) Commit(_ context.Context, id uuid.UUID) error {
	err := os.Remove(s.intentPath(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("filestore: journal commit: %w", err)
	}
	return nil
}

func (s *Store) Pending(_ context.Context) ([]storage.Intent, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, journalDir))
	if err != nil {
		return nil, fmt.Errorf("filestore: list journal: %w", err)
	}

	var out []storage.Intent
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		it, err := readIntent(filepath.Join(s.dir, journalDir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

func readIntent(path string) (storage.Intent, error) {
	f, err := os.Open(path)
	if err != nil {
		return storage.Intent{}, fmt.Errorf("filestore: open intent: %w", err)
	}
	defer f.Close()

	row, err := csv.NewReader(f).Read()
	if err != nil {
		return storage.Intent{}, fmt.Errorf("filestore: read intent %s: %w", filepath.Base(path), err)
	}
	it, err := storage.ParseIntent(row)
	if err != nil {
		return storage.Intent{}, fmt.Errorf("filestore: %s: %w", filepath.Base(path), err)
	}
	return it, nil
}
