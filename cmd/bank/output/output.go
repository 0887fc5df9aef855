// cmd/bank/output/output.go
//
// Package output 輸出 CLI 的狀態訊息（成功、警告、錯誤、提示），以 lipgloss 上色。
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// Out 為狀態訊息的輸出目的地（測試可替換）；錯誤訊息一律寫到 os.Stderr。
var Out io.Writer = os.Stdout

// Success 輸出成功訊息
func Success(format string, args ...any) {
	line(Out, successStyle.Render("✓ "), format, args...)
}

// Warning 輸出警告訊息
func Warning(format string, args ...any) {
	line(Out, warningStyle.Render("⚠ "), format, args...)
}

// Error 輸出錯誤訊息到 stderr
func Error(format string, args ...any) {
	line(os.Stderr, errorStyle.Render("✗ "), format, args...)
}

// Info 輸出一般提示
func Info(format string, args ...any) {
	line(Out, infoStyle.Render("ℹ "), format, args...)
}

// Muted 輸出次要訊息
func Muted(format string, args ...any) {
	fmt.Fprintln(Out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func line(w io.Writer, icon, format string, args ...any) {
	fmt.Fprint(w, icon)
	fmt.Fprintf(w, format+"\n", args...)
}
