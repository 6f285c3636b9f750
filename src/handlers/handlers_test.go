package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finassist/backend/src/config"
	"github.com/username/finassist/backend/src/database"
	"github.com/username/finassist/backend/src/model"
	"github.com/username/finassist/backend/src/parsers/bank"
	"github.com/username/finassist/backend/src/parsers/sales"
	"github.com/username/finassist/backend/src/processors"
	"github.com/username/finassist/backend/src/security"
	"github.com/username/finassist/backend/src/services"
)

const salesCSV = "Data;Fatura;Cliente;Produto;Taxa IVA;Valor Líquido;Valor IVA;Total;Pagamento\n" +
	"01/09/2025;F1;=HYPERLINK(\"x\");Café;14;200;28;228;Cartão\n" +
	"02/09/2025;F2;Loja Norte;Pão;14;50;7;57;Numerário\n"

const bankText = "02/09/2025 Fecho TPA Multicaixa 228,00 5.728,00\n" +
	"02/09/2025 Comissão TPA 1,50 5.726,50\n"

func newTestRouter(t *testing.T, authService *security.AuthService) http.Handler {
	t.Helper()
	config.Cfg = &config.AppConfig{MaxUploadSizeBytes: 1 << 20}

	db, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	store := model.NewSQLStore(db)
	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)
	reconService := services.NewReconciliationService(store, processors.NewReconProcessor([]string{"cartão", "cartao", "card"}))
	uploadService := services.NewUploadService(store, sales.NewExtractor(), bank.NewExtractor(), reconService, reportCache)
	reportService := services.NewReportService(store,
		processors.NewFeeProcessor(),
		processors.NewAnomalyProcessor(),
		processors.NewKPIProcessor(),
		processors.NewVATProcessor(),
		reportCache,
	)

	r := chi.NewRouter()
	r.Use(ContextualLoggerMiddleware)
	RegisterRoutes(r,
		NewUploadHandler(uploadService),
		NewReconHandler(reconService, reportService),
		NewReportHandler(reportService),
		authService,
	)
	return r
}

func multipartBody(t *testing.T, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for field, f := range files {
		part, err := mw.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func upload(t *testing.T, h http.Handler, files map[string][2]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(newTestRouter(t, nil), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUploadAndReports(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := upload(t, h, map[string][2]string{
		"sales": {"vendas.csv", salesCSV},
		"bank":  {"extrato.txt", bankText},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result services.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "2025-09", result.InferredMonth)
	assert.Len(t, result.Results, 2)

	rec = get(h, "/api/recon/card?month=2025-09")
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var report struct {
		Daily []struct {
			Date      string  `json:"date"`
			SalesCard float64 `json:"sales_card"`
			Fees      float64 `json:"fees"`
			Pass      bool    `json:"pass"`
		} `json:"daily"`
		Summary struct {
			TotalDays int `json:"total_days"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Daily, 2)
	assert.Equal(t, "2025-09-01", report.Daily[0].Date)
	assert.Equal(t, 228.0, report.Daily[0].SalesCard)
	assert.Equal(t, 1.5, report.Daily[0].Fees)
	assert.True(t, report.Daily[0].Pass)
	assert.Equal(t, 2, report.Summary.TotalDays)

	rec = get(h, "/api/recon/card?month=2025-09", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = get(h, "/api/kpi/summary?month=2025-09")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"revenue":285`)

	rec = get(h, "/api/kpi/top-products?month=2025-09&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"product":"Café"`)
	assert.NotContains(t, rec.Body.String(), `"product":"Pão"`)

	rec = get(h, "/api/recon/fees?month=2025-09")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":-1.5`)

	rec = get(h, "/api/quality/anomalies?month=2025-09")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":0`)

	rec = get(h, "/api/latest-month")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"month":"2025-09"}`, rec.Body.String())
}

func TestExportVATCSV(t *testing.T) {
	h := newTestRouter(t, nil)
	require.Equal(t, http.StatusOK, upload(t, h, map[string][2]string{"sales": {"vendas.csv", salesCSV}}).Code)

	rec := get(h, "/api/export/vat.csv?month=2025-09")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Data;Fatura;Cliente"))
	assert.Contains(t, lines[1], `"'=HYPERLINK(""x"")"`)
	assert.Contains(t, lines[1], "14%;200.00;28.00;228.00")
}

func TestRecomputeAndDelete(t *testing.T) {
	h := newTestRouter(t, nil)
	require.Equal(t, http.StatusOK, upload(t, h, map[string][2]string{"sales": {"vendas.csv", salesCSV}}).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/recon/card/recompute?month=2025-09", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_days":2`)

	req = httptest.NewRequest(http.MethodDelete, "/api/data?month=2025-09", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uploads_deleted":1`)

	rec = get(h, "/api/sales?month=2025-09")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"month":"2025-09","sales":[]}`, rec.Body.String())

	rec = get(h, "/api/latest-month")
	assert.JSONEq(t, `{"month":""}`, rec.Body.String())
}

func TestBadRequests(t *testing.T) {
	h := newTestRouter(t, nil)

	for _, target := range []string{
		"/api/recon/card",
		"/api/recon/card?month=2025-13",
		"/api/vat/report?month=09-2025",
		"/api/kpi/top-customers?month=2025-09&limit=0",
	} {
		rec := get(h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	rec := upload(t, h, map[string][2]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, h, map[string][2]string{"bank": {"extrato.xlsx", "PK\x03\x04 not really"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	authService := security.NewAuthService("0123456789abcdef0123456789abcdef")
	h := newTestRouter(t, authService)

	assert.Equal(t, http.StatusOK, get(h, "/health").Code)
	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/latest-month").Code)
	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/latest-month", "Authorization", "Bearer nope").Code)

	token, err := authService.GenerateToken("ops")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(h, "/api/latest-month", "Authorization", "Bearer "+token).Code)
}
