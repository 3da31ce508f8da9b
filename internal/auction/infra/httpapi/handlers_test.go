package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/application"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/domain"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/infra/memory"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/audit"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/clock"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/lock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	sink := audit.NewMemorySink()
	registry := memory.NewRegistry(clk)
	locks := lock.NewKeyedMutex(time.Second)
	service := application.NewService(
		application.NewCreateAuctionUseCase(registry, sink, clk),
		application.NewPlaceBidUseCase(registry, locks, sink, clk),
		application.NewGetAuctionUseCase(registry),
		application.NewLeaderboardUseCase(registry, domain.DefaultLeaderboardSize),
		application.NewCloseAuctionUseCase(registry, locks, sink, nil, clk),
	)

	app := fiber.New()
	NewHandler(service, nil).Register(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createTestAuction(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/auctions", map[string]any{
		"loan_reference": "analysis-42",
		"auction_type":   "english",
		"lot_size":       "1000000",
		"min_bid":        "1000",
		"bid_increment":  "50",
		"reserve_price":  "1200",
		"created_by":     "trader-1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var view map[string]any
	decode(t, resp, &view)
	id, _ := view["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestCreateAndGetAuction(t *testing.T) {
	app := newTestApp(t)
	id := createTestAuction(t, app)

	resp := doJSON(t, app, http.MethodGet, "/auctions/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var view map[string]any
	decode(t, resp, &view)
	assert.Equal(t, "english", view["auction_type"])
	assert.Equal(t, "active", view["phase"])
	assert.Equal(t, float64(0), view["bid_count"])
}

func TestCreateAuctionRejectsUnknownType(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/auctions", map[string]any{
		"loan_reference": "analysis-42",
		"auction_type":   "dutch",
		"min_bid":        "1000",
		"bid_increment":  "50",
		"created_by":     "trader-1",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPlaceBidAndRejectionShape(t *testing.T) {
	app := newTestApp(t)
	id := createTestAuction(t, app)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/auctions/%s/bids", id), map[string]any{
		"bidder_id":   "A",
		"bidder_name": "Alice",
		"amount":      "1000",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Below the increment over the current highest: 422 with the threshold.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/auctions/%s/bids", id), map[string]any{
		"bidder_id":   "B",
		"bidder_name": "Bob",
		"amount":      "1040",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var rej rejectionResponse
	decode(t, resp, &rej)
	assert.Equal(t, string(domain.RejectBelowIncrement), rej.Reason)
	assert.Equal(t, "1050.00", rej.Minimum)
	assert.NotEmpty(t, rej.Message)
}

func TestLeaderboardRoute(t *testing.T) {
	app := newTestApp(t)
	id := createTestAuction(t, app)

	for _, amount := range []string{"1000", "1100"} {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/auctions/%s/bids", id), map[string]any{
			"bidder_id":   "A",
			"bidder_name": "Alice",
			"amount":      amount,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/auctions/%s/leaderboard", id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries []map[string]any
	decode(t, resp, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, float64(1), entries[0]["rank"])
}

func TestCloseAuctionRoute(t *testing.T) {
	app := newTestApp(t)
	id := createTestAuction(t, app)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/auctions/%s/bids", id), map[string]any{
		"bidder_id":   "C",
		"bidder_name": "Carol",
		"amount":      "1500",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/auctions/%s/close", id), map[string]any{
		"closed_by": "trader-1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res map[string]any
	decode(t, resp, &res)
	assert.Equal(t, "won", res["outcome"])
	assert.Equal(t, false, res["already_closed"])

	// Closing again replays the stored resolution.
	resp = doJSON(t, app, http.MethodPost, fmt.Sprintf("/auctions/%s/close", id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &res)
	assert.Equal(t, true, res["already_closed"])
}

func TestUnknownAuctionIs404(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/auctions/5f0c19e6-4f4c-4f5e-9f0a-0a4a4f9b8f10", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMalformedAuctionIDIs400(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/auctions/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
