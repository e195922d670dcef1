package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/smmpanel/smmpanel/internal/handlers/middleware"
	"github.com/smmpanel/smmpanel/internal/logger"
	"github.com/smmpanel/smmpanel/internal/repository/postgres"
	"github.com/smmpanel/smmpanel/internal/service/catalog"
	"github.com/smmpanel/smmpanel/internal/service/ledger"
	"github.com/smmpanel/smmpanel/internal/service/order"
	"github.com/smmpanel/smmpanel/internal/service/user"
	"github.com/smmpanel/smmpanel/internal/testutil"
)

const validTxHash = "a3f5b8c2d4e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2"

func TestRouter(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Run http server with production services bound to one rolled back transaction
	withServer := func(t *testing.T, fn func(url string)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)

			router := NewRouter(
				user.NewService(user.DefaultHasher, storage),
				catalog.NewService(storage),
				order.NewService(storage),
				ledger.NewService(ledger.HashShapeVerifier{}, storage),
				logger.NewNoOpLogger(),
			)

			srv := httptest.NewServer(router)
			defer srv.Close()

			fn(srv.URL)
		})
	}

	// Request helpers. Every response body is decoded into a generic map
	do := func(t *testing.T, method string, url string, body string, headers map[string]string) (int, map[string]any) {
		t.Helper()

		req, err := http.NewRequest(method, url, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		decoded := map[string]any{}
		if len(raw) > 0 && raw[0] == '{' {
			require.NoErrorf(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
		}

		return resp.StatusCode, decoded
	}

	createUser := func(t *testing.T, url string, username string) map[string]any {
		t.Helper()

		body := fmt.Sprintf(`{"username": %q, "email": "%s@example.com", "password": "password123"}`, username, username)
		code, data := do(t, http.MethodPost, url+"/api/users", body, nil)
		require.Equal(t, http.StatusCreated, code)
		return data
	}

	createCatalog := func(t *testing.T, url string) (categoryID float64, serviceID float64) {
		t.Helper()

		code, category := do(t, http.MethodPost, url+"/api/categories", `{"name": "Instagram"}`, nil)
		require.Equal(t, http.StatusCreated, code)

		body := fmt.Sprintf(`{
			"category_id": %v,
			"name": "Instagram Followers",
			"description": "High quality followers",
			"price_per_unit": "1.50",
			"min_quantity": 10,
			"max_quantity": 10000,
			"avg_delivery_hours": 24
		}`, category["id"])
		code, service := do(t, http.MethodPost, url+"/api/services", body, nil)
		require.Equal(t, http.StatusCreated, code)

		return category["id"].(float64), service["id"].(float64)
	}

	t.Run("user lifecycle", func(t *testing.T) {
		withServer(t, func(url string) {
			created := createUser(t, url, "alice")
			require.Equal(t, "alice", created["username"])
			require.Equal(t, "0.00", created["balance"])
			require.NotContains(t, created, "hashed_password", "credential hash must not leak")

			code, _ := do(t, http.MethodPost, url+"/api/users", `{"username": "alice", "email": "alice@example.com", "password": "password123"}`, nil)
			require.Equal(t, http.StatusConflict, code, "duplicate registration should conflict")

			code, data := do(t, http.MethodPost, url+"/api/login", `{"email": "alice@example.com", "password": "password123"}`, nil)
			require.Equal(t, http.StatusOK, code)
			require.Equal(t, "alice", data["username"])

			code, data = do(t, http.MethodPost, url+"/api/login", `{"email": "alice@example.com", "password": "wrong"}`, nil)
			require.Equal(t, http.StatusUnauthorized, code)
			require.Equal(t, "Invalid email or password", data["message"])

			code, data = do(t, http.MethodPost, url+"/api/users", `{"username": "bob", "email": "not-an-email", "password": "password123"}`, nil)
			require.Equal(t, http.StatusBadRequest, code)
			require.Equal(t, "validation_failed", data["error"])
		})
	})

	t.Run("admin balance top up", func(t *testing.T) {
		withServer(t, func(url string) {
			created := createUser(t, url, "alice")

			code, data := do(t, http.MethodPatch, fmt.Sprintf("%s/api/users/%v", url, created["id"]), `{"balance": "100.00"}`, nil)
			require.Equal(t, http.StatusOK, code)
			require.Equal(t, "100.00", data["balance"])

			code, data = do(t, http.MethodPatch, fmt.Sprintf("%s/api/users/%v", url, created["id"]), `{"balance": "-1.00"}`, nil)
			require.Equal(t, http.StatusUnprocessableEntity, code)
			require.Equal(t, "Balance must not be negative", data["message"])
		})
	})

	t.Run("catalog", func(t *testing.T) {
		withServer(t, func(url string) {
			categoryID, serviceID := createCatalog(t, url)

			code, _ := do(t, http.MethodGet, url+"/api/services", "", nil)
			require.Equal(t, http.StatusOK, code)

			code, _ = do(t, http.MethodGet, fmt.Sprintf("%s/api/categories/%v/services", url, categoryID), "", nil)
			require.Equal(t, http.StatusOK, code)

			code, data := do(t, http.MethodPatch, fmt.Sprintf("%s/api/services/%v", url, serviceID), `{"price_per_unit": "2.25"}`, nil)
			require.Equal(t, http.StatusOK, code)
			require.Equal(t, "2.250000", data["price_per_unit"])

			code, _ = do(t, http.MethodPost, url+"/api/services", `{"category_id": 404404, "name": "Orphan", "description": "x", "price_per_unit": "1.00", "min_quantity": 1, "max_quantity": 10, "avg_delivery_hours": 1}`, nil)
			require.Equal(t, http.StatusNotFound, code, "unknown category should 404")
		})
	})

	t.Run("order placement", func(t *testing.T) {
		withServer(t, func(url string) {
			created := createUser(t, url, "alice")
			_, serviceID := createCatalog(t, url)

			code, _ := do(t, http.MethodPatch, fmt.Sprintf("%s/api/users/%v", url, created["id"]), `{"balance": "100.00"}`, nil)
			require.Equal(t, http.StatusOK, code)

			code, keyData := do(t, http.MethodPost, fmt.Sprintf("%s/api/users/%v/apikey", url, created["id"]), "", nil)
			require.Equal(t, http.StatusOK, code)
			apiKey := keyData["api_key"].(string)
			auth := map[string]string{middleware.APIKeyHeader: apiKey}

			orderBody := fmt.Sprintf(`{"service_id": %v, "quantity": 50, "target_url": "https://instagram.com/someuser"}`, serviceID)

			t.Run("without api key", func(t *testing.T) {
				code, _ := do(t, http.MethodPost, url+"/api/orders", orderBody, nil)
				require.Equal(t, http.StatusUnauthorized, code)
			})

			t.Run("place ok", func(t *testing.T) {
				code, data := do(t, http.MethodPost, url+"/api/orders", orderBody, auth)
				require.Equal(t, http.StatusCreated, code)
				require.Equal(t, "75.00", data["total_price"], "50 units at 1.50 each")
				require.Equal(t, "pending", data["status"])
			})

			t.Run("insufficient balance", func(t *testing.T) {
				// 100 more units would need 150.00, only 25.00 left after the first order
				body := fmt.Sprintf(`{"service_id": %v, "quantity": 100, "target_url": "https://instagram.com/someuser"}`, serviceID)

				code, data := do(t, http.MethodPost, url+"/api/orders", body, auth)
				require.Equal(t, http.StatusPaymentRequired, code)
				require.Equal(t, "Insufficient balance", data["message"])
			})

			t.Run("quantity out of range", func(t *testing.T) {
				body := fmt.Sprintf(`{"service_id": %v, "quantity": 5, "target_url": "https://instagram.com/someuser"}`, serviceID)

				code, data := do(t, http.MethodPost, url+"/api/orders", body, auth)
				require.Equal(t, http.StatusUnprocessableEntity, code)
				require.Contains(t, data["message"], "minimum is 10")
			})

			t.Run("list filtered", func(t *testing.T) {
				code, _ := do(t, http.MethodGet, fmt.Sprintf("%s/api/orders?user_id=%v", url, created["id"]), "", nil)
				require.Equal(t, http.StatusOK, code)

				code, data := do(t, http.MethodGet, url+"/api/orders?user_id=abc", "", nil)
				require.Equal(t, http.StatusBadRequest, code)
				require.Equal(t, "Invalid user_id filter", data["message"])
			})
		})
	})

	t.Run("deposit flow", func(t *testing.T) {
		withServer(t, func(url string) {
			created := createUser(t, url, "alice")

			depositBody := func(amount string, hash string) string {
				return fmt.Sprintf(`{
					"user_id": %v,
					"type": "deposit",
					"amount": %q,
					"description": "Account top up",
					"crypto_currency": "USDT",
					"crypto_address": "TDepositAddress123",
					"crypto_tx_hash": %q
				}`, created["id"], amount, hash)
			}

			t.Run("settle ok", func(t *testing.T) {
				code, data := do(t, http.MethodPost, url+"/api/transactions", depositBody("50.00", validTxHash), nil)
				require.Equal(t, http.StatusCreated, code)
				require.Equal(t, "pending", data["status"])

				processURL := fmt.Sprintf("%s/api/transactions/%v/process", url, data["id"])

				code, data = do(t, http.MethodPost, processURL, "", nil)
				require.Equal(t, http.StatusOK, code)
				require.Equal(t, "completed", data["status"])

				code, data = do(t, http.MethodPost, processURL, "", nil)
				require.Equal(t, http.StatusConflict, code, "processing twice should conflict")
				require.Equal(t, "Transaction already processed", data["message"])

				code, data = do(t, http.MethodPost, url+"/api/login", `{"email": "alice@example.com", "password": "password123"}`, nil)
				require.Equal(t, http.StatusOK, code)
				require.Equal(t, "50.00", data["balance"], "deposit should be credited exactly once")
			})

			t.Run("verification failure", func(t *testing.T) {
				code, data := do(t, http.MethodPost, url+"/api/transactions", depositBody("25.00", "invalid_hash"), nil)
				require.Equal(t, http.StatusCreated, code)

				code, data = do(t, http.MethodPost, fmt.Sprintf("%s/api/transactions/%v/process", url, data["id"]), "", nil)
				require.Equal(t, http.StatusUnprocessableEntity, code)
				require.Equal(t, "Deposit verification failed", data["message"])
			})

			t.Run("unknown transaction", func(t *testing.T) {
				code, _ := do(t, http.MethodPost, url+"/api/transactions/404404/process", "", nil)
				require.Equal(t, http.StatusNotFound, code)
			})
		})
	})
}
