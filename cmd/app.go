package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"simpleinvoice/internal/auth"
	"simpleinvoice/internal/config"
	"simpleinvoice/internal/invoice"
	"simpleinvoice/internal/logger"
	"simpleinvoice/internal/quota"
	"simpleinvoice/internal/repository"
	"simpleinvoice/pkg/models"
	"simpleinvoice/pkg/services"
)

// app holds the collaborators a command needs. Building it touches no
// network; openInvoices resolves the session and the repository.
type app struct {
	cfg      *config.Config
	state    *quota.FileStore
	tracker  *quota.Tracker
	sessions *auth.SessionStore
	authn    services.Authenticator
	log      zerolog.Logger

	user     *models.User
	invoices *invoice.Service
	closers  []func() error
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("%w\nSet the variables in your environment or a .env file", err)
	}

	store := quota.NewFileStore(cfg.LocalStatePath)

	var authn services.Authenticator = auth.Disabled{}
	if cfg.StorageBackend == config.BackendSupabase {
		authn, err = auth.NewSupabaseAuth(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, err
		}
	}

	return &app{
		cfg:      cfg,
		state:    store,
		tracker:  quota.NewTracker(store),
		sessions: auth.NewSessionStore(store),
		authn:    authn,
		log:      logger.WithComponent("app"),
	}, nil
}

// openInvoices resolves the signed-in user and opens the configured
// repository. A nil tracker turns off the anonymous quota gate.
func (a *app) openInvoices(ctx context.Context, tracker *quota.Tracker) error {
	user, err := a.sessions.CurrentUser(ctx, a.authn)
	if err != nil {
		return err
	}
	a.user = user

	repo, err := a.openRepository()
	if err != nil {
		return err
	}
	a.invoices = invoice.NewService(repo, tracker)
	return nil
}

func (a *app) openRepository() (services.InvoiceRepository, error) {
	switch a.cfg.StorageBackend {
	case config.BackendSQLite:
		repo, err := repository.OpenSQLite(a.cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, repo.Close)
		a.log.Debug().Str("path", a.cfg.SQLitePath).Msg("Using SQLite storage")
		return repo, nil
	default:
		token := ""
		if a.user != nil {
			token, _ = a.sessions.Token()
		}
		a.log.Debug().Str("url", a.cfg.SupabaseURL).Bool("authenticated", a.user != nil).Msg("Using Supabase storage")
		return repository.NewSupabaseRepository(a.cfg.SupabaseURL, a.cfg.SupabaseAnonKey, token)
	}
}

// actor is the signed-in user, or the anonymous token of this machine.
func (a *app) actor() invoice.Actor {
	if a.user != nil {
		return invoice.Actor{UserID: a.user.ID}
	}
	token, _ := a.tracker.Token()
	return invoice.Actor{AnonymousToken: token}
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to close resource")
		}
	}
}

// commandContext applies --timeout and cancels on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command, log zerolog.Logger) (context.Context, context.CancelFunc) {
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func jsonOutput(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool("json")
	return asJSON
}

// writeJSON pretty-prints v followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// friendlyError turns known failures into actionable messages.
func friendlyError(err error, log zerolog.Logger) error {
	log.Debug().Err(err).Msg("Command failed")

	var fieldErrs invoice.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		lines := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			lines = append(lines, fmt.Sprintf("  %s %s", fe.Field, fe.Message))
		}
		return fmt.Errorf("the invoice is not valid:\n%s", strings.Join(lines, "\n"))
	case errors.Is(err, invoice.ErrQuotaExceeded):
		return fmt.Errorf("%w\nRun 'simpleinvoice login' to continue", invoice.ErrQuotaExceeded)
	case errors.Is(err, invoice.ErrNotOwner):
		return invoice.ErrNotOwner
	case errors.Is(err, invoice.ErrInvalidStatus):
		return invoice.ErrInvalidStatus
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("invoice not found")
	case errors.Is(err, auth.ErrInvalidSession):
		return fmt.Errorf("%w\nRun 'simpleinvoice login' again or 'simpleinvoice logout' to continue anonymously", auth.ErrInvalidSession)
	case errors.Is(err, auth.ErrAuthUnavailable):
		return fmt.Errorf("%w (set STORAGE_BACKEND=supabase to use accounts)", auth.ErrAuthUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("request timed out, try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("canceled")
	default:
		return err
	}
}
