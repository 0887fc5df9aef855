// internal/bank/recover.go
//
// 轉帳復原：處理程序崩潰後殘留的預寫意圖。
// 來源帳本在 FromSeq 位置已有 TRANSFER_OUT 而目標帳本在 ToSeq 位置尚無 TRANSFER_IN 時，
// 補上目標入帳（roll forward）；其餘情況代表轉帳未開始或已完成，直接移除意圖。

package bank

import (
	"context"
	"errors"

	"ledgerbank/internal/storage"
)

// Recover 處理所有殘留意圖，回傳補齊入帳的筆數。
// 應於開始服務請求之前呼叫。
func (b *Bank) Recover(ctx context.Context) (int, error) {
	pending, err := b.journal.Pending(ctx)
	if err != nil {
		return 0, internal(err)
	}

	completed := 0
	for _, it := range pending {
		done, err := b.recoverIntent(ctx, it)
		if err != nil {
			return completed, err
		}
		if done {
			completed++
		}
	}
	if len(pending) > 0 {
		b.log(ctx).Info("transfer recovery finished", "pending", len(pending), "completed", completed)
	}
	return completed, nil
}

func (b *Bank) recoverIntent(ctx context.Context, it storage.Intent) (bool, error) {
	unlock := b.locks.lock(it.From, it.To)
	defer unlock()

	log := b.log(ctx).With("intent", it.ID.String(), "from", it.From, "to", it.To)

	src, err := b.records(ctx, it.From)
	if err != nil {
		return false, err
	}
	if !hasRecordAt(src, it.FromSeq, storage.TxTransferOut, it) {
		log.Info("transfer never debited; discarding intent")
		return false, b.commit(ctx, it)
	}

	dst, err := b.records(ctx, it.To)
	if err != nil {
		return false, err
	}
	if hasRecordAt(dst, it.ToSeq, storage.TxTransferIn, it) {
		return false, b.commit(ctx, it)
	}

	if _, err := b.appendRecord(ctx, it.To, storage.TxTransferIn, it.Amount); err != nil {
		return false, err
	}
	log.Warn("transfer completed by recovery", "amount", it.Amount.StringFixed(2))
	return true, b.commit(ctx, it)
}

func (b *Bank) records(ctx context.Context, account string) ([]storage.Record, error) {
	recs, err := b.ledger.Records(ctx, account)
	if err != nil && !errors.Is(err, storage.ErrNoLedger) {
		return nil, internal(err)
	}
	return recs, nil
}

func (b *Bank) commit(ctx context.Context, it storage.Intent) error {
	if err := b.journal.Commit(ctx, it.ID); err != nil {
		return internal(err)
	}
	return nil
}

func hasRecordAt(recs []storage.Record, seq int, typ storage.TxType, it storage.Intent) bool {
	if seq < 0 || seq >= len(recs) {
		return false
	}
	r := recs[seq]
	return r.Type == typ && r.Amount.Equal(it.Amount)
}
