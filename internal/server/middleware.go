package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"ledgerbank/internal/appcontext"
)

// requestLogger 將 logger 掛到請求 context，並於請求結束後記錄一行摘要。
// 查詢字串含 PIN 與 session id，只記錄路徑。
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := appcontext.WithLogger(c.Request.Context(), s.log)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		s.log.InfoContext(ctx, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}
