// internal/appcontext/appcontext.go
//
// Package appcontext 將程序的 slog logger 掛在 context.Context 上，供各層取用。
package appcontext

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithLogger 回傳帶有 logger 的新 context。
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// LoggerFromContext 取出 context 上的 logger；未設定時回傳 slog.Default()。
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}

	return slog.Default()
}
