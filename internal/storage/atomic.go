// internal/storage/atomic.go
//
// 提供檔案的「原子寫入」(atomic write)：先寫入 .tmp 檔，再以 rename() 取代原檔。
// 檔案後端在改寫既有帳本（轉帳回滾移除尾端紀錄）時使用，
// 寫入中途失敗不會留下半份帳本。
package storage

import (
	"fmt"
	"os"
)

// WriteFileAtomic 將 data 寫入 path；流程：
//  1. 寫入 path+".tmp" 暫存檔並 Sync。
//  2. 以 os.Rename() 取代正式檔案。
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	// 原子替換
	return os.Rename(tmp, path)
}
