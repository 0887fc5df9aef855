package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"ledgerbank/cmd/bank/output"
	"ledgerbank/internal/appcontext"
	"ledgerbank/internal/server"
)

var port string

const shutdownTimeout = 10 * time.Second

// serveCmd 啟動 HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API on --port. Every /api route accepts GET query parameters or a POST form.

Examples:
  bank serve                         # file store under ./data on :8080
  bank serve --port 9000 --data /tmp/bank
  bank serve --store postgres --sessions redis`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&port, "port", "8080", "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := appcontext.LoggerFromContext(ctx)

	b, be, err := openBank(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	if err := recoverTransfers(ctx, b); err != nil {
		return err
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	s := server.NewServer(b,
		server.WithLogger(log),
		server.WithLoginRateLimit(cfg.LoginRateLimit),
	)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	output.Success("Bank server running at http://localhost%s", cfg.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	output.Muted("Server stopped")
	return nil
}
