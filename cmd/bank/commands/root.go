// cmd/bank/commands/root.go
//
// Package commands 定義 bank CLI 的 cobra 命令：serve、console 與 recover。
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ledgerbank/cmd/bank/output"
	"ledgerbank/internal/appcontext"
	"ledgerbank/internal/config"
)

var (
	// Global flags
	dataDir      string
	storeKind    string
	sessionsKind string
	verbose      bool

	cfg config.Config
)

// rootCmd 為根命令
var rootCmd = &cobra.Command{
	Use:   "bank",
	Short: "Ledger-backed banking engine",
	Long: `bank keeps one append-only ledger per account and derives every balance from it.

Subcommands:
  serve     - Run the HTTP API
  console   - Run the interactive console
  recover   - Complete transfers interrupted by a crash

Configuration is read from the environment (BANK_DATA_DIR, APP_PORT, BANK_STORE,
BANK_SESSIONS, DATABASE_DSN, REDIS_ADDR, REDIS_PASSWORD, LOGIN_RATE_LIMIT) and
may be overridden by flags.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute 執行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Data directory for the file store (default \"data\")")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Ledger backend: file or postgres")
	rootCmd.PersistentFlags().StringVar(&sessionsKind, "sessions", "", "Session backend: store or redis")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// setup 讀取設定、套用旗標覆寫並把 logger 掛到命令的 context。
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data") {
		loaded.DataDir = dataDir
	}
	if cmd.Flags().Changed("store") {
		loaded.Store = storeKind
	}
	if cmd.Flags().Changed("sessions") {
		loaded.Sessions = sessionsKind
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		loaded.AppPort = f.Value.String()
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(appcontext.WithLogger(ctx, logger))
	return nil
}
