package auth

import (
	"context"
	"errors"

	"simpleinvoice/internal/quota"
	"simpleinvoice/pkg/models"
	"simpleinvoice/pkg/services"
)

// SessionKey is where the CLI keeps the access token in the local store.
const SessionKey = "simpleinvoice_session"

// SessionStore keeps the signed-in user's access token next to the
// anonymous quota state.
type SessionStore struct {
	store quota.Store
}

func NewSessionStore(store quota.Store) *SessionStore {
	if store == nil {
		store = quota.NopStore{}
	}
	return &SessionStore{store: store}
}

// Token returns the saved access token, if any.
func (s *SessionStore) Token() (string, bool) {
	token, ok := s.store.Get(SessionKey)
	return token, ok && token != ""
}

func (s *SessionStore) Save(session *models.Session) {
	s.store.Set(SessionKey, session.AccessToken)
}

func (s *SessionStore) Clear() {
	if d, ok := s.store.(quota.Deleter); ok {
		d.Delete(SessionKey)
		return
	}
	s.store.Set(SessionKey, "")
}

// CurrentUser resolves the saved session. It returns nil without error when
// nobody is signed in or the backend has no accounts.
func (s *SessionStore) CurrentUser(ctx context.Context, authn services.Authenticator) (*models.User, error) {
	token, ok := s.Token()
	if !ok {
		return nil, nil
	}

	user, err := authn.User(ctx, token)
	if errors.Is(err, ErrAuthUnavailable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
