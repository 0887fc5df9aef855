// internal/server/handler.go
//
// Package server
// ─────────────────────────────────────────────
// 提供 HTTP 介面，作為 bank 模組的傳輸層 (Transport Layer)。
// 每個 handler 僅負責：
//  1. 取出查詢參數（GET query 或 POST form 皆可）
//  2. 呼叫 bank 層執行商業邏輯
//  3. 回傳統一的 JSON 信封 {success, message, data}
//
// 分層：
//   - bank：純商業邏輯，與 HTTP 無關。
//   - server：參數擷取、狀態碼映射與回應格式。
//   - storage：持久化，由 bank 注入，server 不直接接觸。
package server

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"ledgerbank/internal/bank"
)

// Server 為 HTTP 層核心結構：
// - Bank：注入商業邏輯層（銀行核心）。
// - log：請求日誌與內部錯誤記錄。
// - loginLimit：/api/login 每分鐘每個用戶端的上限；0 代表不限制。
type Server struct {
	Bank       *bank.Bank
	log        *slog.Logger
	loginLimit int
}

// Option 調整 Server 的建構參數。
type Option func(*Server)

// WithLogger 指定日誌輸出。
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithLoginRateLimit 設定登入頻率上限（每分鐘每個用戶端）；0 停用。
func WithLoginRateLimit(n int) Option {
	return func(s *Server) { s.loginLimit = n }
}

// NewServer 建立新的 HTTP 伺服器。
func NewServer(b *bank.Bank, opts ...Option) *Server {
	s := &Server{Bank: b, log: slog.Default(), loginLimit: DefaultLoginRateLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// param 依序查找 query string 與 form body。
func param(c *gin.Context, key string) (string, bool) {
	if v, ok := c.GetQuery(key); ok {
		return v, true
	}
	return c.GetPostForm(key)
}

// params 取出所有必要參數；任何一個缺少時回傳 false。
func params(c *gin.Context, keys ...string) ([]string, bool) {
	out := make([]string, len(keys))
	for i, k := range keys {
		v, ok := param(c, k)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// login：GET /api/login?account=&pin=
func (s *Server) login(c *gin.Context) {
	p, ok := params(c, "account", "pin")
	if !ok {
		s.fail(c, errMissing("Missing account or pin"))
		return
	}
	sid, err := s.Bank.Login(c.Request.Context(), p[0], p[1])
	if err != nil {
		s.fail(c, err)
		return
	}
	if sid == "" {
		s.fail(c, errInvalidCredentials)
		return
	}
	succeed(c, "Login successful", sid)
}

// logout：GET /api/logout?session_id=
func (s *Server) logout(c *gin.Context) {
	p, ok := params(c, "session_id")
	if !ok {
		s.fail(c, errMissing("Missing session_id"))
		return
	}
	existed, err := s.Bank.Logout(c.Request.Context(), p[0])
	if err != nil {
		s.fail(c, err)
		return
	}
	if !existed {
		s.fail(c, errLogoutUnknown)
		return
	}
	succeed(c, "Logged out", "")
}

// deposit：GET /api/deposit?session_id=&amount=
func (s *Server) deposit(c *gin.Context) {
	p, ok := params(c, "session_id", "amount")
	if !ok {
		s.fail(c, errMissing("Missing session_id or amount"))
		return
	}
	amount, err := bank.ParseAmount(p[1])
	if err != nil {
		s.fail(c, errBadAmount)
		return
	}
	if err := s.Bank.Deposit(c.Request.Context(), p[0], amount); err != nil {
		s.fail(c, err)
		return
	}
	succeed(c, "Deposit successful", "")
}

// debit：GET /api/debit?session_id=&amount=
func (s *Server) debit(c *gin.Context) {
	p, ok := params(c, "session_id", "amount")
	if !ok {
		s.fail(c, errMissing("Missing session_id or amount"))
		return
	}
	amount, err := bank.ParseAmount(p[1])
	if err != nil {
		s.fail(c, errBadAmount)
		return
	}
	if err := s.Bank.Debit(c.Request.Context(), p[0], amount); err != nil {
		s.fail(c, err)
		return
	}
	succeed(c, "Debit successful", "")
}

// transfer：GET /api/transfer?session_id=&to_account=&amount=
func (s *Server) transfer(c *gin.Context) {
	p, ok := params(c, "session_id", "to_account", "amount")
	if !ok {
		s.fail(c, errMissing("Missing session_id, to_account, or amount"))
		return
	}
	amount, err := bank.ParseAmount(p[2])
	if err != nil {
		s.fail(c, errBadAmount)
		return
	}
	if err := s.Bank.Transfer(c.Request.Context(), p[0], p[1], amount); err != nil {
		s.fail(c, err)
		return
	}
	succeed(c, "Transfer successful", "")
}

// statement：GET /api/statement?session_id=[&lines=]
// lines 無法解析時沿用預設值。
func (s *Server) statement(c *gin.Context) {
	p, ok := params(c, "session_id")
	if !ok {
		s.fail(c, errMissing("Missing session_id"))
		return
	}
	lines := bank.DefaultStatementLines
	if v, ok := param(c, "lines"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			lines = n
		}
	}
	out, err := s.Bank.Statement(c.Request.Context(), p[0], lines)
	if err != nil {
		s.fail(c, err)
		return
	}
	succeed(c, "Statement retrieved", out)
}

// createAccount：GET /api/create_account?session_id=&account=&pin=
func (s *Server) createAccount(c *gin.Context) {
	p, ok := params(c, "session_id", "account", "pin")
	if !ok {
		s.fail(c, errMissing("Missing session_id, account, or pin"))
		return
	}
	if err := s.Bank.CreateAccount(c.Request.Context(), p[0], p[1], p[2]); err != nil {
		s.fail(c, err)
		return
	}
	succeed(c, "Account created", "")
}

// listAccounts：GET /api/list_accounts?session_id=
func (s *Server) listAccounts(c *gin.Context) {
	p, ok := params(c, "session_id")
	if !ok {
		s.fail(c, errMissing("Missing session_id"))
		return
	}
	out, err := s.Bank.ListAccounts(c.Request.Context(), p[0])
	if err != nil {
		s.fail(c, err)
		return
	}
	succeed(c, "Accounts listed", out)
}

// health 提供健康檢查端點：GET /health。
func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
