// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 每個錯誤帶有分類 (Kind) 與對外訊息；訊息即傳輸層回傳給使用者的文字，須與對外介面一致。
// 儲存層 I/O 失敗一律包成 KindInternal，與商業規則錯誤區隔。

package bank

import "errors"

// Kind 為錯誤分類，供上層（HTTP、console）映射為狀態碼或輸出格式。
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindInvalidSession
	KindValidation
	KindInsufficientFunds
	KindAccountExists
	KindDestinationNotFound
	KindSameAccount
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidSession:
		return "invalid_session"
	case KindValidation:
		return "validation"
	case KindInsufficientFunds:
		return "insufficient_funds"
	case KindAccountExists:
		return "account_exists"
	case KindDestinationNotFound:
		return "destination_not_found"
	case KindSameAccount:
		return "same_account"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error 為 bank 層回傳的錯誤型別。
type Error struct {
	Kind Kind
	Msg  string
	Err  error // 僅 KindInternal 使用，保存底層原因
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

var (
	// ErrUnauthorized 代表非管理者嘗試管理者操作。
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Msg: "unauthorized"}

	// ErrInvalidSession 代表 session 不存在、已登出或格式錯誤。
	ErrInvalidSession = &Error{Kind: KindInvalidSession, Msg: "invalid session"}

	// 帳號／PIN 格式錯誤；檢查順序：帳號長度 → 帳號字元 → PIN 長度 → PIN 字元。
	ErrAccountNumberLength = &Error{Kind: KindValidation, Msg: "account number must be 8 digits"}
	ErrAccountNumberDigits = &Error{Kind: KindValidation, Msg: "account number must contain only digits"}
	ErrPinLength           = &Error{Kind: KindValidation, Msg: "pin must be 4 digits"}
	ErrPinDigits           = &Error{Kind: KindValidation, Msg: "pin must contain only digits"}

	// ErrInvalidAmount 代表金額（四捨五入至分後）不大於 0。
	ErrInvalidAmount = &Error{Kind: KindValidation, Msg: "amount must be positive"}

	// ErrAmountTooLarge 代表金額或入帳後餘額超過 MaxAmount。
	ErrAmountTooLarge = &Error{Kind: KindValidation, Msg: "amount exceeds limit"}

	// ErrInsufficientFunds 代表餘額不足，提款或轉帳失敗且不寫入任何紀錄。
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds, Msg: "insufficient funds"}

	// ErrAccountExists 代表欲建立的帳號已存在。
	ErrAccountExists = &Error{Kind: KindAccountExists, Msg: "account already exists"}

	// ErrSameAccount 代表轉帳來源與目標相同。
	ErrSameAccount = &Error{Kind: KindSameAccount, Msg: "cannot transfer to same account"}

	// ErrDestinationNotFound 代表轉帳目標帳戶不存在。
	ErrDestinationNotFound = &Error{Kind: KindDestinationNotFound, Msg: "destination account does not exist"}

	// ErrNoStatement 代表找不到帳本檔。
	ErrNoStatement = &Error{Kind: KindNotFound, Msg: "no statement found"}
)

// internal 將儲存層錯誤包成 KindInternal。
func internal(err error) error {
	return &Error{Kind: KindInternal, Msg: "internal error", Err: err}
}

// KindOf 回傳 err 的分類；非 *Error 一律視為 KindInternal。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message 回傳適合對外顯示的訊息，不洩漏內部錯誤細節。
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}
