// internal/server/response.go
//
// 本檔負責統一 HTTP 回應格式與錯誤 → 狀態碼映射。
// 所有 /api 回應皆為 {"success": bool, "message": string, "data"?: string}。
// 商業錯誤的 message 為 "error: <訊息>"，與 console 輸出一致；
// 傳輸層自身的錯誤（缺少參數、金額無法解析、登入失敗）沿用既有的固定文字。
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerbank/internal/bank"
)

// envelope 為 /api 回應的 JSON 結構。
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// requestError 為傳輸層錯誤：訊息原樣輸出，不加 "error: " 前綴。
type requestError struct {
	code int
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func errMissing(msg string) error { return &requestError{code: http.StatusBadRequest, msg: msg} }

var (
	errBadAmount          = &requestError{code: http.StatusBadRequest, msg: "Invalid amount"}
	errInvalidCredentials = &requestError{code: http.StatusUnauthorized, msg: "Invalid account or pin"}
	errLogoutUnknown      = &requestError{code: http.StatusUnauthorized, msg: "Invalid session"}
	errTooManyRequests    = &requestError{code: http.StatusTooManyRequests, msg: "Too many requests"}
)

// succeed 輸出成功回應。
func succeed(c *gin.Context, msg, data string) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: msg, Data: data})
}

// fail 輸出失敗回應；內部錯誤只記錄原因，對外一律為 "error: internal error"。
func (s *Server) fail(c *gin.Context, err error) {
	var re *requestError
	if errors.As(err, &re) {
		c.AbortWithStatusJSON(re.code, envelope{Message: re.msg})
		return
	}

	code := statusFor(bank.KindOf(err))
	if code == http.StatusInternalServerError {
		s.log.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	c.AbortWithStatusJSON(code, envelope{Message: "error: " + bank.Message(err)})
}

// statusFor 將錯誤分類映射為 HTTP 狀態碼。
func statusFor(k bank.Kind) int {
	switch k {
	case bank.KindValidation, bank.KindSameAccount:
		return http.StatusBadRequest
	case bank.KindUnauthorized, bank.KindInvalidSession:
		return http.StatusUnauthorized
	case bank.KindDestinationNotFound, bank.KindNotFound:
		return http.StatusNotFound
	case bank.KindInsufficientFunds, bank.KindAccountExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
