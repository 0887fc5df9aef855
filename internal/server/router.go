// internal/server/router.go
//
// 本檔負責 HTTP 路由註冊與中介層組裝。
//   - handler.go 定義「如何處理請求」
//   - router.go 定義「請求如何被導向」
//   - cmd/bank/commands 組裝整體應用（注入 Bank、儲存後端、設定）
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router 建立並回傳整個 HTTP 處理鏈。
// 每個 /api 端點同時接受 GET（query string）與 POST（form body）。
func (s *Server) Router() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	// 健康檢查：可供監控或 Docker liveness probe 使用。
	r.GET("/health", s.health)

	api := r.Group("/api")
	handle := func(path string, h ...gin.HandlerFunc) {
		api.GET(path, h...)
		api.POST(path, h...)
	}

	if s.loginLimit > 0 {
		handle("/login", newRateLimiter(s.loginLimit, loginWindow).middleware(), s.login)
	} else {
		handle("/login", s.login)
	}
	handle("/logout", s.logout)
	handle("/deposit", s.deposit)
	handle("/debit", s.debit)
	handle("/transfer", s.transfer)
	handle("/statement", s.statement)
	handle("/create_account", s.createAccount)
	handle("/list_accounts", s.listAccounts)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	return r
}
