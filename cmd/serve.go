package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"simpleinvoice/internal/invoice"
	"simpleinvoice/internal/logger"
	"simpleinvoice/internal/pdf"
	"simpleinvoice/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API",
	Long: `Serve the invoice API over HTTP until interrupted.

Clients authenticate with "Authorization: Bearer <access token>" or pass
their anonymous_token. The API does not enforce the free invoice quota;
clients track it locally.`,
	Example: `  simpleinvoice serve
  simpleinvoice serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default: HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.HTTPAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The server never acts with the local CLI session.
	repo, err := a.openRepository()
	if err != nil {
		return err
	}

	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(invoice.NewService(repo, nil), a.authn, pdf.NewRenderer(), a.cfg.AppBaseURL)

	log.Info().
		Str("addr", addr).
		Str("backend", a.cfg.StorageBackend).
		Msg("Starting API server")

	return srv.Run(ctx, addr)
}
