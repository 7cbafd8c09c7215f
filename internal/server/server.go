// Package server exposes the invoice service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"simpleinvoice/internal/invoice"
	"simpleinvoice/internal/logger"
	"simpleinvoice/internal/pdf"
	"simpleinvoice/pkg/services"
)

const shutdownTimeout = 10 * time.Second

// Server is the JSON API.
type Server struct {
	invoices *invoice.Service
	authn    services.Authenticator
	renderer *pdf.Renderer
	baseURL  string
	engine   *gin.Engine
	log      zerolog.Logger
}

// New builds the router. Creation through the API is not quota gated, so
// invoices should be given a service without a quota tracker.
func New(invoices *invoice.Service, authn services.Authenticator, renderer *pdf.Renderer, baseURL string) *Server {
	s := &Server{
		invoices: invoices,
		authn:    authn,
		renderer: renderer,
		baseURL:  baseURL,
		log:      logger.WithComponent("server"),
	}

	engine := gin.New()
	engine.Use(requestID(), requestLogger(), recovery())

	engine.GET("/healthz", s.health)

	api := engine.Group("/api", bearerAuth(authn))
	api.GET("/currencies", s.listCurrencies)
	api.GET("/invoices", s.listInvoices)
	api.POST("/invoices", s.createInvoice)
	api.GET("/invoices/:id", s.getInvoice)
	api.PATCH("/invoices/:id/status", s.updateStatus)
	api.GET("/invoices/:id/pdf", s.invoicePDF)

	s.engine = engine
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	const op = "Run"

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: shutdown: %w", op, err)
	}
	return nil
}
