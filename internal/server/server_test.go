package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"simpleinvoice/internal/auth"
	"simpleinvoice/internal/invoice"
	"simpleinvoice/internal/pdf"
	"simpleinvoice/internal/repository"
	"simpleinvoice/pkg/models"
)

type fakeAuth struct {
	users map[string]models.User
}

func (f fakeAuth) SignIn(context.Context, string, string) (*models.Session, error) {
	return nil, auth.ErrInvalidCredentials
}

func (f fakeAuth) User(_ context.Context, token string) (*models.User, error) {
	u, ok := f.users[token]
	if !ok {
		return nil, auth.ErrInvalidSession
	}
	return &u, nil
}

func (f fakeAuth) SignOut(context.Context, string) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	authn := fakeAuth{users: map[string]models.User{
		"alice-token": {ID: "alice", Email: "alice@example.test"},
	}}
	return New(invoice.NewService(repo, nil), authn, pdf.NewRenderer(), "https://simpleinvoice.test")
}

func do(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func invoiceBody(token string) map[string]any {
	return map[string]any{
		"anonymous_token": token,
		"client_name":     "Globex",
		"client_email":    "ap@globex.test",
		"currency":        "EUR",
		"tax_rate":        8.5,
		"items": []map[string]any{
			{"description": "Design", "quantity": 2, "rate": 50},
			{"description": "Hosting", "quantity": 1, "rate": 19.99},
		},
	}
}

func createInvoice(t *testing.T, s *Server, anonToken, bearer string) models.Invoice {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/invoices", invoiceBody(anonToken), bearer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var inv models.Invoice
	require.NoError(t, json.Unmarshal(decode(t, w)["invoice"], &inv))
	return inv
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestCreateInvoice_Anonymous(t *testing.T) {
	s := newTestServer(t)

	inv := createInvoice(t, s, "anon-1", "")

	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, models.StatusDraft, inv.Status)
	assert.Equal(t, "anon-1", models.Deref(inv.AnonymousToken))
	assert.InDelta(t, 119.99, inv.Subtotal, 1e-9)
	assert.InDelta(t, 10.20, inv.TaxAmount, 1e-9)
	assert.InDelta(t, 130.19, inv.Total, 1e-9)
}

func TestCreateInvoice_Authenticated(t *testing.T) {
	s := newTestServer(t)

	inv := createInvoice(t, s, "", "alice-token")
	assert.Equal(t, "alice", models.Deref(inv.UserID))
	assert.Nil(t, inv.AnonymousToken)
}

func TestCreateInvoice_Errors(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/invoices", invoiceBody(""), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := invoiceBody("anon-1")
	body["client_name"] = ""
	w = do(t, s, http.MethodPost, "/api/invoices", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "client_name")

	w = do(t, s, http.MethodPost, "/api/invoices", invoiceBody("anon-1"), "bogus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListInvoices(t *testing.T) {
	s := newTestServer(t)

	first := createInvoice(t, s, "anon-1", "")
	createInvoice(t, s, "anon-1", "")
	createInvoice(t, s, "anon-2", "")

	w := do(t, s, http.MethodPatch, "/api/invoices/"+first.ID+"/status",
		map[string]string{"status": "sent", "anonymous_token": "anon-1"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/api/invoices?anonymous_token=anon-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)

	var invoices []models.Invoice
	require.NoError(t, json.Unmarshal(out["invoices"], &invoices))
	assert.Len(t, invoices, 2)

	var stats invoice.Stats
	require.NoError(t, json.Unmarshal(out["stats"], &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Sent)
	assert.InDelta(t, 130.19, stats.TotalOutstanding, 1e-9)

	w = do(t, s, http.MethodGet, "/api/invoices?anonymous_token=anon-1&status=sent", nil, "")
	require.NoError(t, json.Unmarshal(decode(t, w)["invoices"], &invoices))
	require.Len(t, invoices, 1)
	assert.Equal(t, first.ID, invoices[0].ID)

	w = do(t, s, http.MethodGet, "/api/invoices?status=void", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListInvoices_NoIdentity(t *testing.T) {
	s := newTestServer(t)
	createInvoice(t, s, "anon-1", "")

	w := do(t, s, http.MethodGet, "/api/invoices", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var invoices []models.Invoice
	require.NoError(t, json.Unmarshal(decode(t, w)["invoices"], &invoices))
	assert.Empty(t, invoices)
}

func TestGetInvoice(t *testing.T) {
	s := newTestServer(t)
	inv := createInvoice(t, s, "anon-1", "")

	w := do(t, s, http.MethodGet, "/api/invoices/"+inv.ID+"?anonymous_token=anon-1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.JSONEq(t, "true", string(out["is_owner"]))
	assert.JSONEq(t, `"https://simpleinvoice.test/invoice/`+inv.ID+`"`, string(out["share_url"]))

	w = do(t, s, http.MethodGet, "/api/invoices/"+inv.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "false", string(decode(t, w)["is_owner"]))

	w = do(t, s, http.MethodGet, "/api/invoices/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatus(t *testing.T) {
	s := newTestServer(t)
	inv := createInvoice(t, s, "", "alice-token")
	path := "/api/invoices/" + inv.ID + "/status"

	w := do(t, s, http.MethodPatch, path, map[string]string{"status": "paid"}, "alice-token")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Invoice
	require.NoError(t, json.Unmarshal(decode(t, w)["invoice"], &updated))
	assert.Equal(t, models.StatusPaid, updated.Status)
	assert.NotNil(t, updated.PaidAt)

	w = do(t, s, http.MethodPatch, path, map[string]string{"status": "draft"}, "alice-token")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decode(t, w)["invoice"], &updated))
	assert.Nil(t, updated.PaidAt)

	w = do(t, s, http.MethodPatch, path, map[string]string{"status": "paid", "anonymous_token": "someone"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodPatch, path, map[string]string{"status": "void"}, "alice-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoicePDF(t *testing.T) {
	s := newTestServer(t)
	inv := createInvoice(t, s, "anon-1", "")

	w := do(t, s, http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), inv.InvoiceNumber+".pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestListCurrencies(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/api/currencies", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"KZT"`)
}
