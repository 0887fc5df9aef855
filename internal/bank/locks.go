package bank

import (
	"sort"
	"sync"
)

// accountLocks 為每個帳號一把互斥鎖，跨越「讀餘額 → 檢查 → 追加」整段流程。
// 多把鎖一律依帳號字典序取得，避免轉帳互鎖。帳號數量有限，鎖不回收。
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *accountLocks) get(account string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[account]
	if !ok {
		m = &sync.Mutex{}
		l.locks[account] = m
	}
	return m
}

// lock 取得所有帳號的鎖並回傳解鎖函式。
func (l *accountLocks) lock(accounts ...string) func() {
	keys := append([]string(nil), accounts...)
	sort.Strings(keys)

	held := make([]*sync.Mutex, 0, len(keys))
	for i, k := range keys {
		if i > 0 && k == keys[i-1] {
			continue
		}
		m := l.get(k)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
