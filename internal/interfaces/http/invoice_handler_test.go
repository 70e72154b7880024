package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/invoice-api/internal/application/auth"
	"github.com/jhoicas/invoice-api/internal/application/billing"
	"github.com/jhoicas/invoice-api/internal/application/dto"
	apphttp "github.com/jhoicas/invoice-api/internal/interfaces/http"
	"github.com/jhoicas/invoice-api/pkg/logger"
)

type testServer struct {
	app      *fiber.App
	invoices *memInvoiceRepo
}

func newTestServer() *testServer {
	invoices := newMemInvoiceRepo()
	users := newMemUserRepo()

	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}).
		WithHashCost(bcrypt.MinCost)
	invoiceUC := billing.NewInvoiceUseCase(memTxRunner{repo: invoices}, invoices, nil, nil, billing.InvoiceConfig{})
	pdfUC := billing.NewPDFUseCase(invoices, fakePDF{}, nil)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop(), nil))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		InvoiceUC:  invoiceUC,
		InvoicePDF: pdfUC,
		JWTSecret:  testJWTSecret,
	})
	return &testServer{app: app, invoices: invoices}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestInvoiceRoutes_RequierenToken(t *testing.T) {
	s := newTestServer()
	resp := s.do(t, http.MethodGet, "/api/invoices", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateInvoice_EntradaLaxaCaeADefectos(t *testing.T) {
	s := newTestServer()
	token := bearer(t, testUserID)

	body := `{
		"invoice_number": "INV-100",
		"from_company": "Acme",
		"to_company": "Globex",
		"tax_rate": 10,
		"items": [
			{"description": "Diseño", "quantity": 2, "rate": "10.50"},
			{"description": "Extra", "quantity": "abc", "rate": null},
			{"description": "Raro", "quantity": true, "rate": {"x": 1}}
		]
	}`
	resp := s.do(t, http.MethodPost, "/api/invoices?status=final", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.InvoiceResponse](t, resp)

	assert.Equal(t, "INV-100", out.InvoiceNumber)
	assert.Equal(t, "final", out.Status)
	require.Len(t, out.Items, 3)
	assert.Equal(t, 21.0, out.Items[0].Amount)
	for _, it := range out.Items[1:] {
		assert.Equal(t, 1.0, it.Quantity)
		assert.Equal(t, 0.0, it.Rate)
		assert.Equal(t, 0.0, it.Amount)
	}
	assert.Equal(t, "21.00", out.Totals.SubtotalDisplay)
	assert.Equal(t, "2.10", out.Totals.TaxAmountDisplay)
	assert.Equal(t, "23.10", out.Totals.TotalDisplay)
}

func TestCreateInvoice_Validacion(t *testing.T) {
	s := newTestServer()
	token := bearer(t, testUserID)

	resp := s.do(t, http.MethodPost, "/api/invoices", token, `{"to_email": "no-es-email", "issue_date": "05/03/2024"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Fields, "to_email")
	assert.Contains(t, out.Fields, "issue_date")

	resp = s.do(t, http.MethodPost, "/api/invoices", token, `{"items": [`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/invoices?status=paid", token, `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvoiceLifecycle(t *testing.T) {
	s := newTestServer()
	token := bearer(t, testUserID)

	resp := s.do(t, http.MethodPost, "/api/invoices", token, dto.InvoiceRequest{
		InvoiceNumber: "INV-1",
		Items: []dto.InvoiceItemRequest{
			{Description: "A", Quantity: dto.NewNumericInput("1"), Rate: dto.NewNumericInput("100")},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "draft", created.Status, "sin ?status se guarda como borrador")

	resp = s.do(t, http.MethodGet, "/api/invoices/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "100.00", got.Totals.TotalDisplay)

	resp = s.do(t, http.MethodGet, "/api/invoices/"+created.ID, bearer(t, "otro-usuario"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPut, "/api/invoices/"+created.ID+"?status=final", token, dto.InvoiceRequest{
		InvoiceNumber: "INV-1",
		TaxRate:       func() *float64 { v := 5.0; return &v }(),
		Items: []dto.InvoiceItemRequest{
			{Description: "A", Quantity: dto.NewNumericInput("2"), Rate: dto.NewNumericInput("100")},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "210.00", updated.Totals.TotalDisplay)

	resp = s.do(t, http.MethodPut, "/api/invoices/"+created.ID, token, dto.InvoiceRequest{})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "una factura final no se edita")

	resp = s.do(t, http.MethodDelete, "/api/invoices/"+created.ID, token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/invoices/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[dto.InvoiceStatsResponse](t, resp)
	assert.Equal(t, dto.InvoiceStatsResponse{Total: 1, Draft: 0, Final: 1}, stats)

	resp = s.do(t, http.MethodGet, "/api/invoices/"+created.ID+"/pdf", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-INV-1.pdf"`, resp.Header.Get("Content-Disposition"))
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestDeleteDraft(t *testing.T) {
	s := newTestServer()
	token := bearer(t, testUserID)

	resp := s.do(t, http.MethodPost, "/api/invoices", token, `{}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.InvoiceResponse](t, resp)

	resp = s.do(t, http.MethodDelete, "/api/invoices/"+created.ID, token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/invoices/"+created.ID, token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListInvoices(t *testing.T) {
	s := newTestServer()
	token := bearer(t, testUserID)

	for _, body := range []string{
		`{"invoice_number": "INV-1", "to_company": "Globex"}`,
		`{"invoice_number": "INV-2", "to_company": "Initech"}`,
	} {
		resp := s.do(t, http.MethodPost, "/api/invoices", token, body)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := s.do(t, http.MethodGet, "/api/invoices?search=globex&status=all", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.InvoiceListResponse](t, resp)
	require.Len(t, out.Invoices, 1)
	assert.Equal(t, "INV-1", out.Invoices[0].InvoiceNumber)
	assert.Equal(t, 2, out.Loaded)
	assert.True(t, out.Filtered)

	resp = s.do(t, http.MethodGet, "/api/invoices?sort=customer", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errOut := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, errOut.Fields, "sort")
}

func TestPreview(t *testing.T) {
	s := newTestServer()

	resp := s.do(t, http.MethodPost, "/api/invoices/preview", bearer(t, testUserID), `{
		"tax_rate": 8.25,
		"items": [{"quantity": 3, "rate": 19.99}, {"quantity": "", "rate": "5"}]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.PreviewResponse](t, resp)
	require.Len(t, out.Items, 2)
	assert.InDelta(t, 59.97, out.Items[0].Amount, 1e-9)
	assert.Equal(t, 5.0, out.Items[1].Amount)
	assert.Equal(t, "64.97", out.Totals.SubtotalDisplay)
	assert.Equal(t, "5.36", out.Totals.TaxAmountDisplay)
	assert.Equal(t, "70.33", out.Totals.TotalDisplay)
}

func TestImportesDesbordados_Responden400(t *testing.T) {
	s := newTestServer()
	token := bearer(t, testUserID)

	bodies := map[string]string{
		"producto infinito": `{"items":[{"quantity":"1e200","rate":"1e200"}],"tax_rate":10}`,
		"sin impuesto":      `{"items":[{"quantity":"1e308","rate":"10"}]}`,
	}
	for name, body := range bodies {
		t.Run(name+"/preview", func(t *testing.T) {
			resp := s.do(t, http.MethodPost, "/api/invoices/preview", token, body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			out := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, "VALIDATION", out.Code)
		})
		t.Run(name+"/save", func(t *testing.T) {
			resp := s.do(t, http.MethodPost, "/api/invoices", token, body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			out := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, "VALIDATION", out.Code)
		})
	}
	assert.Empty(t, s.invoices.invoices)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer()

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "ana@example.com", Password: "supersecreto", FullName: "Ana",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[dto.UserResponse](t, resp)

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "ana@example.com", Password: "supersecreto",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", `{"email": "x", "password": "corto"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errOut := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, errOut.Fields, "email")
	assert.Contains(t, errOut.Fields, "password")

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "incorrecto"})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@example.com", Password: "supersecreto"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	resp = s.do(t, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "Ana", me.FullName)
}
