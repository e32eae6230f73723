package http

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/config"
	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	snap      *model.Snapshot
	err       error
	refreshes int
}

func (f *fakeService) Snapshot(_ context.Context) (*model.Snapshot, error) { return f.snap, f.err }

func (f *fakeService) Refresh(_ context.Context) (*model.Snapshot, error) {
	f.refreshes++
	return f.snap, f.err
}

func fullSnapshot() *model.Snapshot {
	day := time.Date(2014, 6, 15, 0, 0, 0, 0, time.UTC)
	busiest := model.DailyTotal{Date: day, Total: 18}
	return &model.Snapshot{
		ID:          "01J00000000000000000000000",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Overview: &model.Overview{
			Rows:     1,
			Columns:  []string{"Id", "MntWines"},
			Head:     [][]string{{"1826", "189"}},
			Describe: []model.ColumnStats{{Column: "MntWines", Count: 1, Mean: 189, Min: 189, Max: 189}},
		},
		BestProduct: &model.BestProduct{
			Product:      model.ProductWines,
			Label:        model.ProductWines.Label(),
			Reason:       model.ProductWines.Reason(),
			AmountEarned: 680816,
			ProductStats: []model.ColumnStats{{Column: "MntGoldProds", Count: 2212, Mean: 44.06}},
		},
		DailyPurchases: []model.DailyTotal{{Date: day.AddDate(0, 0, -1), Total: 4}, busiest},
		BusiestDay:     &busiest,
		TaxFreight:     &model.TaxFreight{HighestTaxProduct: "836", HighestFreightProduct: "836"},
		BoughtTogether: &model.ProductPair{First: "822", Second: "836", Orders: 3},
		RevenueProfit: &model.RevenueProfit{
			Revenue: decimal.RequireFromString("1316.06"),
			Profit:  decimal.RequireFromString("1177.88"),
		},
		TopCustomers: []model.CustomerCount{{CustID: "29847", Purchases: 2}},
	}
}

func setupServerTest(t *testing.T, svc *fakeService) *Server {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	srv, err := NewServer(cfg, svc, nil)
	require.NoError(t, err)
	return srv
}

func do(srv *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestDashboard(t *testing.T) {
	srv := setupServerTest(t, &fakeService{snap: fullSnapshot()})

	rec := do(srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Superstore Dashboard")
	assert.Contains(t, body, "Wines")
	assert.Contains(t, body, "$680,816.00")
	assert.Contains(t, body, "Summary statistics for the relevant columns")
	assert.Contains(t, body, "<th>MntGoldProds</th><td>2212</td><td>44.06</td>")
	assert.Contains(t, body, "June 15, 2014")
	assert.Contains(t, body, "$1,177.88")
	assert.Contains(t, body, "Customer 29847")
	assert.Contains(t, body, "/charts/daily-purchases.png")
}

func TestDashboard_FailedSections(t *testing.T) {
	snap := fullSnapshot()
	snap.BoughtTogether = nil
	snap.Errors = map[string]string{model.SectionBoughtTogether: "no order contains two distinct products"}
	srv := setupServerTest(t, &fakeService{snap: snap})

	rec := do(srv, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no order contains two distinct products")
}

func TestDashboard_ServiceError(t *testing.T) {
	srv := setupServerTest(t, &fakeService{err: errors.New("boom")})

	rec := do(srv, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReportAPI(t *testing.T) {
	srv := setupServerTest(t, &fakeService{snap: fullSnapshot()})

	rec := do(srv, http.MethodGet, "/api/v1/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "01J00000000000000000000000", got.ID)
	assert.Equal(t, model.ProductWines, got.BestProduct.Product)
	assert.True(t, got.RevenueProfit.Revenue.Equal(decimal.RequireFromString("1316.06")))
}

func TestRefreshAPI(t *testing.T) {
	svc := &fakeService{snap: fullSnapshot()}
	srv := setupServerTest(t, svc)

	rec := do(srv, http.MethodPost, "/api/v1/report/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.refreshes)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["refreshed"])

	rec = do(srv, http.MethodGet, "/api/v1/report/refresh")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestOverviewAPI(t *testing.T) {
	srv := setupServerTest(t, &fakeService{snap: fullSnapshot()})

	rec := do(srv, http.MethodGet, "/api/v1/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	var ov model.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ov))
	assert.Equal(t, []string{"Id", "MntWines"}, ov.Columns)

	snap := fullSnapshot()
	snap.Overview = nil
	snap.Errors = map[string]string{model.SectionOverview: "missing column: MntWines"}
	srv = setupServerTest(t, &fakeService{snap: snap})
	rec = do(srv, http.MethodGet, "/api/v1/overview")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing column")
}

func TestDailyChart(t *testing.T) {
	srv := setupServerTest(t, &fakeService{snap: fullSnapshot()})

	rec := do(srv, http.MethodGet, "/charts/daily-purchases.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	_, err := png.Decode(rec.Body)
	assert.NoError(t, err)
}

func TestDailyChart_SectionFailed(t *testing.T) {
	snap := fullSnapshot()
	snap.Errors = map[string]string{model.SectionDailyPurchases: "empty dataset"}
	srv := setupServerTest(t, &fakeService{snap: snap})

	rec := do(srv, http.MethodGet, "/charts/daily-purchases.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := setupServerTest(t, &fakeService{snap: fullSnapshot()})

	rec := do(srv, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
