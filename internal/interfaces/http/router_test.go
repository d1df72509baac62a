package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/carpet-shop-api/internal/application/analytics"
	"github.com/jhoicas/carpet-shop-api/internal/application/auth"
	"github.com/jhoicas/carpet-shop-api/internal/application/billing"
	"github.com/jhoicas/carpet-shop-api/internal/application/checks"
	"github.com/jhoicas/carpet-shop-api/internal/application/inventory"
	domaininv "github.com/jhoicas/carpet-shop-api/internal/domain/inventory"
	apphttp "github.com/jhoicas/carpet-shop-api/internal/interfaces/http"
	"github.com/jhoicas/carpet-shop-api/internal/testutil/memstore"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

var routerNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type testServer struct {
	app   *fiber.App
	store *memstore.Store
}

func newTestServer(t *testing.T, adminMutations bool) *testServer {
	t.Helper()
	store := memstore.New()
	clock := func() time.Time { return routerNow }

	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}).WithBcryptCost(bcrypt.MinCost)
	itemUC := inventory.NewItemUseCase(store.Items(), store.TxRunner(), nil, nil, nil, nil).WithClock(clock)
	ledger := inventory.NewLedger(domaininv.StockPolicyStrict)
	invoiceUC := billing.NewInvoiceUseCase(store.TxRunner(), ledger, store.Invoices(), nil, nil, time.UTC).WithClock(clock)
	checkUC := checks.NewCheckUseCase(store.Checks(), store.Invoices(), store.Items(), checks.DefaultLeadDays).WithClock(clock)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         authUC,
		ItemUC:         itemUC,
		InvoiceUC:      invoiceUC,
		PDFUC:          billing.NewPDFUseCase(store.Invoices(), nil),
		CheckUC:        checkUC,
		ReportUC:       analytics.NewReportUseCase(nil, "current"),
		JWTSecret:      testJWTSecret,
		AdminMutations: adminMutations,
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

// adminToken crea el primer administrador y devuelve su token.
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	resp, _ := s.do(t, http.MethodPost, "/api/auth/init-admin", "", map[string]string{
		"username": "admin", "email": "admin@shop.test", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return s.login(t, "admin", "secret123")
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Token string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (s *testServer) createItem(t *testing.T, token string, qty int) string {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/api/items", token, map[string]interface{}{
		"pattern": "Tabriz", "size": "nine_meter", "payment_method": "cash",
		"purchase_price": 300, "quantity": qty,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decodeID(t, body)
}

func decodeID(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Code
}

// ─── Rutas públicas ───────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, false)
	resp, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")
}

func TestRouter_InitAdminSoloUnaVez(t *testing.T) {
	s := newTestServer(t, false)
	s.adminToken(t)

	resp, body := s.do(t, http.MethodPost, "/api/auth/init-admin", "", map[string]string{
		"username": "otro", "email": "otro@shop.test", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, body))
}

func TestRouter_LoginCredencialesInvalidas(t *testing.T) {
	s := newTestServer(t, false)
	s.adminToken(t)

	resp, body := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin", "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestRouter_RutaProtegidaSinToken(t *testing.T) {
	s := newTestServer(t, false)
	resp, _ := s.do(t, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_Me(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)

	resp, body := s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"username":"admin"`)
	assert.Contains(t, string(body), `"role":"admin"`)
}

// ─── Alfombras y facturas ─────────────────────────────────────────────────────

func TestRouter_CrearAlfombraValidaCampos(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)

	resp, body := s.do(t, http.MethodPost, "/api/items", token, map[string]interface{}{
		"pattern": "Tabriz", "payment_method": "cash",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}

func TestRouter_FacturaSinExistenciaRetorna409(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)
	itemID := s.createItem(t, token, 1)

	resp, body := s.do(t, http.MethodPost, "/api/invoices", token, map[string]interface{}{
		"customer_name": "Rezaei",
		"items": []map[string]interface{}{
			{"carpet_id": itemID, "quantity": 2, "unit_price": 500},
		},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))
	assert.Equal(t, 0, s.store.InvoiceCount())
	assert.Equal(t, 1, s.store.Quantity(itemID))
}

func TestRouter_CrearYFinalizarFacturaDescuentaExistencia(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)
	itemID := s.createItem(t, token, 2)

	resp, body := s.do(t, http.MethodPost, "/api/invoices", token, map[string]interface{}{
		"customer_name": "Rezaei",
		"items": []map[string]interface{}{
			{"carpet_id": itemID, "quantity": 2, "unit_price": 500},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	invoiceID := decodeID(t, body)
	assert.Equal(t, 2, s.store.Quantity(itemID), "crear no descuenta")

	resp, body = s.do(t, http.MethodPost, "/api/invoices/"+invoiceID+"/finalize", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"status":"FINALIZED"`)
	assert.Equal(t, 0, s.store.Quantity(itemID))

	resp, _ = s.do(t, http.MethodPost, "/api/invoices/"+invoiceID+"/finalize", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, s.store.Quantity(itemID), "finalizar dos veces no descuenta de nuevo")

	resp, _ = s.do(t, http.MethodDelete, "/api/invoices/"+invoiceID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 2, s.store.Quantity(itemID), "eliminar la factura finalizada devuelve las unidades")
}

func TestRouter_FacturaInexistente(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)

	resp, body := s.do(t, http.MethodGet, "/api/invoices/no-existe", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestRouter_IDsMalFormados(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/invoices/abc"},
		{http.MethodPost, "/api/invoices/abc/finalize"},
		{http.MethodDelete, "/api/invoices/abc"},
		{http.MethodGet, "/api/items/abc"},
		{http.MethodDelete, "/api/checks/abc"},
	} {
		resp, body := s.do(t, tc.method, tc.path, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tc.method+" "+tc.path)
		assert.Equal(t, "NOT_FOUND", errorCode(t, body), tc.method+" "+tc.path)
	}

	resp, body := s.do(t, http.MethodPost, "/api/invoices", token, map[string]interface{}{
		"customer_name": "Rezaei",
		"items": []map[string]interface{}{
			{"carpet_id": "abc", "quantity": 1, "unit_price": 500},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, body = s.do(t, http.MethodPost, "/api/checks", token, map[string]interface{}{
		"check_number": "1001", "amount": 50, "check_date": "2026-04-01T00:00:00Z",
		"check_type": "incoming", "invoice_id": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
	assert.Equal(t, 0, s.store.InvoiceCount())
}

func TestRouter_FechaInvalidaEnListado(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)

	resp, body := s.do(t, http.MethodGet, "/api/invoices?start_date=15-03-2026", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_DATE", errorCode(t, body))
}

func TestRouter_TamanosDisponibles(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)

	resp, body := s.do(t, http.MethodGet, "/api/items/sizes", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "nine_meter")
}

func TestRouter_ExportarSinRendererRetorna503(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)

	resp, body := s.do(t, http.MethodGet, "/api/items/export/xlsx", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "UNAVAILABLE", errorCode(t, body))
}

// ─── Roles ────────────────────────────────────────────────────────────────────

func TestRouter_UsuarioNoPuedeRegistrarNiBorrarDefinitivo(t *testing.T) {
	s := newTestServer(t, false)
	admin := s.adminToken(t)
	itemID := s.createItem(t, admin, 1)

	resp, _ := s.do(t, http.MethodPost, "/api/auth/register", admin, map[string]string{
		"username": "vendedor", "email": "v@shop.test", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := s.login(t, "vendedor", "secret123")

	resp, _ = s.do(t, http.MethodPost, "/api/auth/register", user, map[string]string{
		"username": "otro", "email": "o@shop.test", "password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, "/api/items/"+itemID+"/permanent", user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Sin restricción de mutaciones el usuario sí crea alfombras.
	s.createItem(t, user, 1)
}

func TestRouter_AdminMutationsRestringeEscrituras(t *testing.T) {
	s := newTestServer(t, true)
	admin := s.adminToken(t)

	resp, _ := s.do(t, http.MethodPost, "/api/auth/register", admin, map[string]string{
		"username": "vendedor", "email": "v@shop.test", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := s.login(t, "vendedor", "secret123")

	resp, _ = s.do(t, http.MethodPost, "/api/items", user, map[string]interface{}{
		"size": "nine_meter", "payment_method": "cash", "purchase_price": 100,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/items", user, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "la lectura sigue abierta")
}

// ─── Cheques y reportes ───────────────────────────────────────────────────────

func TestRouter_ChequesProximosValidaVentana(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)

	resp, body := s.do(t, http.MethodGet, "/api/checks/upcoming?days=120", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, body = s.do(t, http.MethodGet, "/api/checks/upcoming", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestRouter_ReportePeriodoDesconocido(t *testing.T) {
	s := newTestServer(t, false)
	token := s.adminToken(t)

	resp, body := s.do(t, http.MethodGet, "/api/reports/financial/decade", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}
