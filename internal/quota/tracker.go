// Package quota tracks how many invoices an anonymous identity has created.
//
// The identity and its counter live in a client-local Store, the CLI's
// equivalent of browser local storage. The remote backend only ever sees the
// token, copied onto each invoice for ownership checks.
package quota

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"simpleinvoice/internal/logger"
)

// MaxFreeInvoices is how many invoices an anonymous identity may create.
const MaxFreeInvoices = 3

const (
	TokenKey = "simpleinvoice_anon_token"
	CountKey = "simpleinvoice_anon_count"
)

// Tracker gates anonymous invoice creation.
//
// Increment is a plain read-modify-write. Two processes sharing a store can
// lose an increment; the store is single-client so this is accepted.
type Tracker struct {
	store    Store
	newToken func() string
	log      zerolog.Logger
}

// NewTracker creates a tracker over store. A nil store behaves like NopStore,
// in which case quota tracking is ineffective.
func NewTracker(store Store) *Tracker {
	if store == nil {
		store = NopStore{}
	}
	return &Tracker{
		store:    store,
		newToken: uuid.NewString,
		log:      logger.WithComponent("quota"),
	}
}

// GetOrCreateToken returns the stored anonymous token, creating and
// persisting one (with a zero count) on first use.
func (t *Tracker) GetOrCreateToken() string {
	if token, ok := t.store.Get(TokenKey); ok && token != "" {
		return token
	}

	token := t.newToken()
	t.store.Set(TokenKey, token)
	t.store.Set(CountKey, "0")

	t.log.Debug().Str("anonymous_token", token).Msg("Created anonymous identity")
	return token
}

// Token returns the stored anonymous token without creating one.
func (t *Tracker) Token() (string, bool) {
	token, ok := t.store.Get(TokenKey)
	return token, ok && token != ""
}

// Count returns the number of invoices created anonymously. Missing or
// unparseable values count as 0.
func (t *Tracker) Count() int {
	raw, ok := t.store.Get(CountKey)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Increment records one more anonymous invoice.
func (t *Tracker) Increment() {
	next := t.Count() + 1
	t.store.Set(CountKey, strconv.Itoa(next))
	t.log.Debug().Int("count", next).Msg("Anonymous invoice count incremented")
}

// CanCreate reports whether another invoice may be created. Authenticated
// users are never limited.
func (t *Tracker) CanCreate(isAuthenticated bool) bool {
	if isAuthenticated {
		return true
	}
	return t.Count() < MaxFreeInvoices
}

// RemainingFree is the number of free invoices left, never negative.
func (t *Tracker) RemainingFree() int {
	return max(0, MaxFreeInvoices-t.Count())
}
