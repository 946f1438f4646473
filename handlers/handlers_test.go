package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwStore/entities"
	"hwStore/models"
	"hwStore/repository"
	"hwStore/services"
)

const basePath = "/hw/store"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	db, err := repository.Open(repository.DriverSqlite, filepath.Join(dir, "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pR, err := repository.NewProductRepository(db)
	require.NoError(t, err)
	oR, err := repository.NewOrderRepository(db)
	require.NoError(t, err)

	static := filepath.Join(dir, "dist")
	require.NoError(t, os.MkdirAll(static, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<div id=\"root\"></div>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "bundle.js"), []byte("console.log(1)"), 0o644))

	h := NewHandler(HandlerParams{
		PrdService: services.NewProductService(pR),
		OrdService: services.NewOrderService(pR, oR),
	})
	return NewRouter(h, basePath, static)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetProducts(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, basePath+"/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIdHeader))

	var prods []entities.ProductShortInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prods))
	assert.Len(t, prods, 6)
}

func TestGetProduct(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodGet, basePath+"/api/products/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var p entities.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Sleek Lamp", p.Name)
	assert.Equal(t, "silver", p.Color)

	rec = do(t, h, http.MethodGet, basePath+"/api/products/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutAndGetOrder(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodPost, basePath+"/api/checkout", entities.CheckoutRequest{
		Form: entities.CheckoutForm{Name: "Name", Phone: "8 (999) 123-45-67", Address: "Address"},
		Cart: entities.CartState{1: {Name: "Incredible Keyboard", Price: 300, Count: 2}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp entities.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Id)

	rec = do(t, h, http.MethodGet, basePath+"/api/orders/"+resp.Id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var order entities.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "600", order.Total.String())
	assert.Equal(t, "Name", order.Form.Name)
}

func TestCheckoutValidationError(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodPost, basePath+"/api/checkout", entities.CheckoutRequest{
		Form: entities.CheckoutForm{Name: "Name", Phone: "123 456 7890", Address: ""},
		Cart: entities.CartState{1: {Name: "Incredible Keyboard", Price: 300, Count: 1}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation error", body.Error)
	assert.True(t, body.Fields.Has("phone"))
	assert.True(t, body.Fields.Has("address"))
	assert.False(t, body.Fields.Has("name"))
}

func TestCheckoutMalformedBody(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, basePath+"/api/checkout", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaticFilesAndFallback(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, basePath+"/bundle.js", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())

	rec = do(t, h, http.MethodGet, basePath+"/catalog/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "root")

	rec = do(t, h, http.MethodGet, basePath, nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)

	rec = do(t, h, http.MethodGet, "/elsewhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIdIsKept(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, basePath+"/api/products", nil)
	req.Header.Set(RequestIdHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIdHeader))
}

func TestErrorHandleMiddlewareRecovers(t *testing.T) {
	h := NewHandler(HandlerParams{})
	panicky := h.ErrorHandleMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	panicky.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestWriteErrorResponse(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{models.ErrBadRequest, http.StatusBadRequest},
		{models.ErrNotFoundError, http.StatusNotFound},
		{models.ErrServerError, http.StatusInternalServerError},
		{models.FieldErrors{"name": "missing"}, http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		WriteErrorResponse(rec, c.err)
		assert.Equal(t, c.code, rec.Code, c.err.Error())
	}
}
