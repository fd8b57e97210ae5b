package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BitUp/internal/domain/models"
	"BitUp/internal/quant/fee"
	"BitUp/internal/usecase"
	applogger "BitUp/pkg/logger"
)

type stubTickStore struct {
	ticks []models.Tick
}

func (s *stubTickStore) Store(ctx context.Context, t models.Tick) error { return nil }
func (s *stubTickStore) StoreBatch(ctx context.Context, ticks []models.Tick) error {
	return nil
}
func (s *stubTickStore) QueryWindow(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Tick, error) {
	return s.ticks, nil
}
func (s *stubTickStore) Health(ctx context.Context) error { return nil }
func (s *stubTickStore) Close() error                     { return nil }

type stubMetrics struct{}

func (stubMetrics) RecordMessageSent(backend, symbol string)     {}
func (stubMetrics) RecordError(kind string)                      {}
func (stubMetrics) RecordLastPrice(symbol string, price float64) {}
func (stubMetrics) RecordLatency(op string, seconds float64)     {}

func newTestHandler(t *testing.T, store *stubTickStore) *QuantHandler {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	candles := usecase.NewCandlesUseCase(store, nil, stubMetrics{}, 0)
	riskUC := usecase.NewRiskUseCase(fee.DefaultRates(), stubMetrics{})
	stakeUC := usecase.NewStakeUseCase(stubMetrics{})
	return NewQuantHandler(l, candles, riskUC, stakeUC, store)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestHealthOK(t *testing.T) {
	h := newTestHandler(t, &stubTickStore{})
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Health(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCandlesEndpoint(t *testing.T) {
	store := &stubTickStore{ticks: []models.Tick{
		{Symbol: "BTCUSDT", Timestamp: time.UnixMilli(0).UTC(), Price: decimal.RequireFromString("100"), Quantity: decimal.RequireFromString("1")},
		{Symbol: "BTCUSDT", Timestamp: time.UnixMilli(30_000).UTC(), Price: decimal.RequireFromString("105"), Quantity: decimal.RequireFromString("2")},
	}}
	h := newTestHandler(t, store)

	_, envelope := doJSON(t, h.Candles, http.MethodGet,
		"/api/candles?symbol=BTCUSDT&interval=1m&from=0&to="+time.Now().UTC().Format(time.RFC3339), "")
	assert.Equal(t, float64(http.StatusOK), envelope["status"])

	data := envelope["data"].(map[string]any)
	assert.Equal(t, "BTCUSDT", data["symbol"])
	assert.Equal(t, "1m", data["interval"])
	assert.Equal(t, float64(1), data["count"])
}

func TestCandlesRejectsBadInterval(t *testing.T) {
	h := newTestHandler(t, &stubTickStore{})
	_, envelope := doJSON(t, h.Candles, http.MethodGet, "/api/candles?symbol=BTCUSDT&interval=7m", "")
	assert.Equal(t, float64(http.StatusBadRequest), envelope["status"])
}

func TestRiskEndpoint(t *testing.T) {
	h := newTestHandler(t, &stubTickStore{})
	body := `{
		"position": {
			"symbol": "BTCUSDT",
			"side": "long",
			"entry_price": "100",
			"quantity": "2",
			"margin": "20",
			"leverage": 10,
			"margin_mode": "isolated"
		},
		"mark_price": "110"
	}`
	_, envelope := doJSON(t, h.Risk, http.MethodPost, "/api/futures/risk", body)
	require.Equal(t, float64(http.StatusOK), envelope["status"])

	data := envelope["data"].(map[string]any)
	assert.Equal(t, "220", data["notional"])
	assert.Equal(t, "20", data["unrealized_pnl"])
	assert.Equal(t, "100", data["roe"])
	assert.Equal(t, "90", data["liquidation_price"])
}

func TestRiskRejectsBadDecimal(t *testing.T) {
	h := newTestHandler(t, &stubTickStore{})
	body := `{
		"position": {
			"symbol": "BTCUSDT",
			"side": "long",
			"entry_price": "abc",
			"quantity": "2",
			"margin": "20",
			"leverage": 10,
			"margin_mode": "isolated"
		},
		"mark_price": "110"
	}`
	_, envelope := doJSON(t, h.Risk, http.MethodPost, "/api/futures/risk", body)
	assert.Equal(t, float64(http.StatusBadRequest), envelope["status"])
}

func TestOrderPreviewEndpoint(t *testing.T) {
	h := newTestHandler(t, &stubTickStore{})
	body := `{"price": "100", "quantity": "2", "leverage": 10, "role": "taker"}`
	_, envelope := doJSON(t, h.OrderPreview, http.MethodPost, "/api/futures/preview", body)
	require.Equal(t, float64(http.StatusOK), envelope["status"])

	data := envelope["data"].(map[string]any)
	assert.Equal(t, "200", data["notional"])
	assert.Equal(t, "20", data["required_margin"])
	assert.Equal(t, "0.08", data["fee"])
	assert.Equal(t, "0.02", data["funding_payment"])
}

func TestAccrualEndpoint(t *testing.T) {
	h := newTestHandler(t, &stubTickStore{})
	stakedAt := time.Now().UTC().Add(-10 * 24 * time.Hour)
	body := `{
		"principal": "1000",
		"apy_percent": "36.5",
		"staked_at": "` + stakedAt.Format(time.RFC3339) + `",
		"as_of": "` + stakedAt.Add(10*24*time.Hour).Format(time.RFC3339) + `"
	}`
	_, envelope := doJSON(t, h.Accrual, http.MethodPost, "/api/launchpool/accrual", body)
	require.Equal(t, float64(http.StatusOK), envelope["status"])

	data := envelope["data"].(map[string]any)
	assert.Equal(t, "10", data["accrued"])
	assert.Equal(t, "10", data["claimable"])
}

func TestClaimPreviewNothingToClaim(t *testing.T) {
	h := newTestHandler(t, &stubTickStore{})
	stakedAt := time.Now().UTC().Add(-24 * time.Hour)
	body := `{
		"principal": "1000",
		"apy_percent": "36.5",
		"staked_at": "` + stakedAt.Format(time.RFC3339) + `",
		"reward_claimed": "5",
		"as_of": "` + stakedAt.Add(24*time.Hour).Format(time.RFC3339) + `"
	}`
	_, envelope := doJSON(t, h.ClaimPreview, http.MethodPost, "/api/launchpool/claim-preview", body)
	assert.Equal(t, float64(http.StatusBadRequest), envelope["status"])
}
