// Package auth resolves user sessions for the invoice service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nedpals/supabase-go"
	"github.com/rs/zerolog"
	"simpleinvoice/internal/logger"
	"simpleinvoice/pkg/models"
	"simpleinvoice/pkg/services"
)

var (
	// ErrAuthUnavailable is returned when the configured backend has no user accounts.
	ErrAuthUnavailable = errors.New("sign-in is not available with this storage backend")

	// ErrInvalidSession is returned when an access token is rejected.
	ErrInvalidSession = errors.New("session is invalid or expired, please log in again")

	// ErrInvalidCredentials is returned when sign-in fails.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// SupabaseAuth authenticates against Supabase Auth (GoTrue).
type SupabaseAuth struct {
	client *supabase.Client
	log    zerolog.Logger
}

// NewSupabaseAuth creates an authenticator for the project at baseURL.
func NewSupabaseAuth(baseURL, anonKey string) (*SupabaseAuth, error) {
	client := supabase.CreateClient(baseURL, anonKey)
	if client == nil {
		return nil, fmt.Errorf("NewSupabaseAuth: failed to create Supabase client for %s", baseURL)
	}
	return &SupabaseAuth{
		client: client,
		log:    logger.WithComponent("auth"),
	}, nil
}

var _ services.Authenticator = (*SupabaseAuth)(nil)

func (a *SupabaseAuth) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	details, err := a.client.Auth.SignIn(ctx, supabase.UserCredentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		a.log.Debug().Err(err).Str("email", email).Msg("Sign-in rejected")
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	return &models.Session{
		AccessToken: details.AccessToken,
		User: models.User{
			ID:    details.User.ID,
			Email: details.User.Email,
		},
	}, nil
}

func (a *SupabaseAuth) User(ctx context.Context, accessToken string) (*models.User, error) {
	user, err := a.client.Auth.User(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if user == nil || user.ID == "" {
		return nil, ErrInvalidSession
	}
	return &models.User{ID: user.ID, Email: user.Email}, nil
}

func (a *SupabaseAuth) SignOut(ctx context.Context, accessToken string) error {
	if err := a.client.Auth.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("SignOut: %w", err)
	}
	return nil
}

// Disabled is the authenticator for backends without user accounts. Every
// caller is anonymous.
type Disabled struct{}

var _ services.Authenticator = Disabled{}

func (Disabled) SignIn(context.Context, string, string) (*models.Session, error) {
	return nil, ErrAuthUnavailable
}

func (Disabled) User(context.Context, string) (*models.User, error) {
	return nil, ErrAuthUnavailable
}

func (Disabled) SignOut(context.Context, string) error {
	return ErrAuthUnavailable
}
