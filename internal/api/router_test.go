package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Dashboard-Backend/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	balances := testutil.NewMockBalanceLookup().WithQuote(testutil.ValidBTCAddress, 0.5, 60000, 2.5)
	prices := testutil.NewMockPriceClient()
	portfolios := testutil.NewTestPortfolioService(t, db, balances)

	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}
	return api.NewRouter(api.Services{
		System: testutil.NewTestSystemService(t, db),
		Auth:   testutil.NewTestAuthService(t, db),
		Balance: testutil.NewTestBalanceService(t,
			testutil.NewMockBlockstreamClient().WithBalance(testutil.ValidBTCAddress, 1),
			testutil.NewMockEthClient(),
			prices,
		),
		Market:    service.NewMarketService(prices),
		Portfolio: portfolios,
		Refresh:   testutil.NewTestRefreshService(t, db, portfolios, balances),
	}, cfg)
}

func do(t *testing.T, router http.Handler, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signUp(t *testing.T, router http.Handler, email string) string {
	t.Helper()

	w := do(t, router, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/register", request.RegisterRequest{
		Name:            "Router Test",
		Email:           email,
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	}), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, router, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", request.LoginRequest{
		Email:    email,
		Password: "s3cret-pass",
	}), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var session model.Session
	require.NoError(t, json.NewDecoder(w.Body).Decode(&session))
	return session.Token
}

func TestRouter_PublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	t.Run("health", func(t *testing.T) {
		w := do(t, router, httptest.NewRequest(http.MethodGet, "/api/system/health", nil), "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bitcoin balance", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/bitcoin/balance",
			map[string]string{"address": testutil.ValidBTCAddress})
		w := do(t, router, req, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var quote model.BalanceQuote
		require.NoError(t, json.NewDecoder(w.Body).Decode(&quote))
		assert.Equal(t, 60000.0, quote.ValueInEur)
	})

	t.Run("price history", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/coingecko",
			map[string]string{"from": "1717200000", "to": "1717372800"})
		w := do(t, router, req, "")
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	// WHY: portfolio data is per account; no portfolio route may answer without a session.
	t.Run("rejects requests without a token", func(t *testing.T) {
		router := newTestRouter(t)

		for _, path := range []string{"/api/portfolio", "/api/dashboard", "/api/dashboard/charts", "/api/auth/me"} {
			w := do(t, router, httptest.NewRequest(http.MethodGet, path, nil), "")
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})

	t.Run("rejects a forged token", func(t *testing.T) {
		router := newTestRouter(t)

		w := do(t, router, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil), "not-a-fernet-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("add, update and delete an asset with a session", func(t *testing.T) {
		router := newTestRouter(t)
		token := signUp(t, router, "flow@example.com")

		w := do(t, router, testutil.NewJSONRequest(t, http.MethodPost, "/api/portfolio/crypto", request.AddCryptoRequest{
			Symbol:  "BTC",
			Address: testutil.ValidBTCAddress,
		}), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var asset model.Asset
		require.NoError(t, json.NewDecoder(w.Body).Decode(&asset))
		assert.Equal(t, 30000.0, asset.Value)

		name := "Cold wallet"
		w = do(t, router, testutil.NewJSONRequest(t, http.MethodPut, "/api/portfolio/assets/"+asset.ID,
			request.UpdateAssetRequest{Name: &name}), token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = do(t, router, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil), token)
		require.Equal(t, http.StatusOK, w.Code)
		var p model.Portfolio
		require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
		require.Len(t, p.Assets, 1)
		assert.Equal(t, "Cold wallet", p.Assets[0].Name)

		w = do(t, router, httptest.NewRequest(http.MethodDelete, "/api/portfolio/assets/"+asset.ID, nil), token)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("rejects an asset id with unsafe characters", func(t *testing.T) {
		router := newTestRouter(t)
		token := signUp(t, router, "unsafe@example.com")

		w := do(t, router, httptest.NewRequest(http.MethodDelete, "/api/portfolio/assets/bad%20id", nil), token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
