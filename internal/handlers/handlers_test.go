package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"katalog/internal/handlers"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupApp mounts the product and validation handlers on an in-memory store.
func setupApp(t *testing.T) (*fiber.App, *repositories.MockProductRepository) {
	t.Helper()
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, nil, zap.NewNop())

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewProductHandler(service, zap.NewNop()).RegisterRoutes(apiV1)
	handlers.NewValidationHandler().RegisterRoutes(apiV1)
	return app, repo
}

func post(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestValidateProduct(t *testing.T) {
	app, _ := setupApp(t)

	tests := []struct {
		name      string
		body      map[string]interface{}
		wantValid bool
		wantCodes []string
	}{
		{
			name:      "all fields valid",
			body:      map[string]interface{}{"id": 100, "name": "Pizza", "price": 80.49, "stock": 20},
			wantValid: true,
			wantCodes: []string{"ID_VALID", "NAME_VALID", "PRICE_VALID", "STOCK_VALID"},
		},
		{
			name:      "every field out of range",
			body:      map[string]interface{}{"id": 7, "name": "", "price": 7.99, "stock": 800001},
			wantValid: false,
			wantCodes: []string{"ID_INVALID", "NAME_EMPTY", "PRICE_INVALID", "STOCK_INVALID"},
		},
		{
			name:      "name with punctuation",
			body:      map[string]interface{}{"id": 478, "name": "Mice@81", "price": 80.49, "stock": 1120},
			wantValid: false,
			wantCodes: []string{"ID_VALID", "NAME_INVALID_CHARACTERS", "PRICE_VALID", "STOCK_VALID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, app, "/api/v1/validate/product", tt.body)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			body := readJSON(t, resp)
			assert.Equal(t, tt.wantValid, body["valid"])
			results, ok := body["results"].([]interface{})
			require.True(t, ok)
			require.Len(t, results, len(tt.wantCodes))
			for i, code := range tt.wantCodes {
				assert.Equal(t, code, results[i].(map[string]interface{})["code"])
			}
		})
	}
}

func TestValidateStockChecks(t *testing.T) {
	app, _ := setupApp(t)

	tests := []struct {
		name        string
		path        string
		body        map[string]interface{}
		wantStatus  int
		wantValid   bool
		wantMessage string
	}{
		{"increase within limit", "/api/v1/validate/increase", map[string]interface{}{"current_stock": 100, "amount": 799900}, http.StatusOK, true, "Stock increase is valid."},
		{"increase over limit", "/api/v1/validate/increase", map[string]interface{}{"current_stock": 100, "amount": 799901}, http.StatusOK, false, "Stock amount exceeds maximum stock limit."},
		{"increase not positive", "/api/v1/validate/increase", map[string]interface{}{"current_stock": 100, "amount": 0}, http.StatusOK, false, "Stock increase amount must be greater than zero."},
		{"decrease to minimum", "/api/v1/validate/decrease", map[string]interface{}{"current_stock": 100, "amount": 92}, http.StatusOK, true, "Stock decrease is valid."},
		{"decrease below minimum", "/api/v1/validate/decrease", map[string]interface{}{"current_stock": 100, "amount": 93}, http.StatusOK, false, "Stock amount falls below minimum stock limit."},
		{"decrease not positive", "/api/v1/validate/decrease", map[string]interface{}{"current_stock": 100, "amount": -5}, http.StatusOK, false, "Stock decrease amount must be greater than zero."},
		{"missing current stock", "/api/v1/validate/decrease", map[string]interface{}{"amount": 5}, http.StatusBadRequest, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, app, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			body := readJSON(t, resp)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "Validation failed", body["message"])
				return
			}
			assert.Equal(t, tt.wantValid, body["valid"])
			result := body["result"].(map[string]interface{})
			assert.Equal(t, "amount", result["field"])
			assert.Equal(t, tt.wantMessage, result["message"])
		})
	}
}

func TestProductHandler_ErrorMapping(t *testing.T) {
	app, repo := setupApp(t)
	require.NoError(t, repo.Create(models.NewProduct(100, "Pizza", 80.49, 20)))

	// Existing ID
	resp := post(t, app, "/api/v1/products", map[string]interface{}{"id": 100, "name": "Pizza", "price": 80.49, "stock": 20})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Unknown product
	resp = post(t, app, "/api/v1/products/200/stock/increase", map[string]int{"amount": 5})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Malformed body
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Domain refusal carries the outcome
	resp = post(t, app, "/api/v1/products/100/stock/increase", map[string]int{"amount": 0})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := readJSON(t, resp)
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "INCREASE_NOT_POSITIVE", results[0].(map[string]interface{})["code"])

	stored, err := repo.GetByID(100)
	require.NoError(t, err)
	assert.Equal(t, 20, stored.Stock)
}
