package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/capital-longevity/internal/config"
	"github.com/iwvelando/capital-longevity/internal/dashboard"
	"github.com/iwvelando/capital-longevity/internal/server"
	"github.com/iwvelando/capital-longevity/internal/session"
	"github.com/iwvelando/capital-longevity/pkg/output"
	"github.com/iwvelando/capital-longevity/pkg/testutil"
	"go.uber.org/zap"
)

type viewResponse struct {
	Years           string          `json:"years"`
	Delta           string          `json:"delta"`
	CapitalChart    dashboard.Chart `json:"capitalChart"`
	WithdrawalChart dashboard.Chart `json:"withdrawalChart"`
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func postInputs(t *testing.T, client *http.Client, url, body string) viewResponse {
	t.Helper()

	resp, err := client.Post(url+"/api/longevity", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/longevity failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, data)
	}

	var view viewResponse
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return view
}

// TestDashboardSession walks through a browser session: defaults, then two
// input changes, each compared against the result before it.
func TestDashboardSession(t *testing.T) {
	ts := httptest.NewServer(server.NewHandler(zap.NewNop(), nil, server.Options{}))
	defer ts.Close()
	client := newClient(t)

	first := postInputs(t, client, ts.URL, `{"capital":250000,"withdrawal":22000,"ratePercent":5}`)
	if first.Years != "17.21" || first.Delta != "–" {
		t.Fatalf("unexpected first view %s / %s", first.Years, first.Delta)
	}

	second := postInputs(t, client, ts.URL, `{"capital":264000,"withdrawal":22000,"ratePercent":5}`)
	if second.Years != "18.78" || second.Delta != "+1.57 years" {
		t.Fatalf("unexpected second view %s / %s", second.Years, second.Delta)
	}

	third := postInputs(t, client, ts.URL, `{"capital":264000,"withdrawal":10000,"ratePercent":5}`)
	if third.Years != "∞" || third.Delta != "–" {
		t.Fatalf("unexpected third view %s / %s", third.Years, third.Delta)
	}

	fourth := postInputs(t, client, ts.URL, `{"capital":264000,"withdrawal":22000,"ratePercent":5}`)
	if fourth.Delta != "–" {
		t.Fatalf("expected no delta after an infinite result, got %s", fourth.Delta)
	}

	// A second browser has its own memo.
	other := postInputs(t, newClient(t), ts.URL, `{"capital":250000,"withdrawal":22000,"ratePercent":5}`)
	if other.Delta != "–" {
		t.Fatalf("expected independent session, got %s", other.Delta)
	}
}

func TestChartsMatchSweeps(t *testing.T) {
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	ts := httptest.NewServer(server.NewHandler(zap.NewNop(), conf, server.Options{}))
	defer ts.Close()

	view := postInputs(t, newClient(t), ts.URL, `{"capital":400000,"withdrawal":30000,"ratePercent":4.5}`)
	if view.Years != "20.82" {
		t.Fatalf("expected 20.82 years, got %s", view.Years)
	}

	capitalSeries, withdrawalSeries := dashboard.Sweeps(conf, dashboard.Inputs{Capital: 400000, Withdrawal: 30000, RatePercent: 4.5})
	if len(view.CapitalChart.Points) != len(capitalSeries.Points) || len(capitalSeries.Points) != 96 {
		t.Fatalf("expected 96 capital points, got %d / %d", len(view.CapitalChart.Points), len(capitalSeries.Points))
	}
	if len(view.WithdrawalChart.Points) != len(withdrawalSeries.Points) || len(withdrawalSeries.Points) != 56 {
		t.Fatalf("expected 56 withdrawal points, got %d / %d", len(view.WithdrawalChart.Points), len(withdrawalSeries.Points))
	}

	for i, point := range view.CapitalChart.Points {
		expected := capitalSeries.Points[i]
		if point.X != expected.X {
			t.Fatalf("point %d: x = %v, expected %v", i, point.X, expected.X)
		}
		if expected.Result.IsFinite() != (point.Y != nil) {
			t.Fatalf("point %d: finite mismatch", i)
		}
		if point.Y != nil && *point.Y != expected.Result.Years {
			t.Fatalf("point %d: y = %v, expected %v", i, *point.Y, expected.Result.Years)
		}
	}

	// 30000 / 0.045 = 666666.67, so the first capital that never depletes is 670000.
	first, ok := testutil.FirstInfinite(capitalSeries)
	if !ok || first != 670000 {
		t.Fatalf("expected capital sweep to turn infinite at 670000, got %v (%v)", first, ok)
	}
}

func TestExportMatchesOutputPackage(t *testing.T) {
	conf := config.DefaultConfiguration()
	ts := httptest.NewServer(server.NewHandler(zap.NewNop(), conf, server.Options{}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/export/csv?capital=300000&withdrawal=18000&ratePercent=3.5")
	if err != nil {
		t.Fatalf("GET /api/export/csv failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	capitalSeries, withdrawalSeries := dashboard.Sweeps(conf, dashboard.Inputs{Capital: 300000, Withdrawal: 18000, RatePercent: 3.5})
	if expected := output.CsvString(capitalSeries, withdrawalSeries); string(data) != expected {
		t.Fatalf("CSV export does not match output.CsvFormat")
	}
}

// TestRedisSessions runs the session walk-through against a real Redis when
// LONGEVITY_TEST_REDIS_ADDR is set.
func TestRedisSessions(t *testing.T) {
	addr := os.Getenv("LONGEVITY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LONGEVITY_TEST_REDIS_ADDR not set")
	}

	store := session.NewRedisStore(addr, "", 0, time.Minute)
	defer store.Close()
	if err := store.Ping(context.Background()); err != nil {
		t.Skipf("redis unavailable at %s: %v", addr, err)
	}

	ts := httptest.NewServer(server.NewHandler(zap.NewNop(), nil, server.Options{Store: store, SessionTTL: time.Minute}))
	defer ts.Close()
	client := newClient(t)

	postInputs(t, client, ts.URL, `{"capital":250000,"withdrawal":22000,"ratePercent":5}`)
	second := postInputs(t, client, ts.URL, `{"capital":264000,"withdrawal":22000,"ratePercent":5}`)
	if second.Delta != "+1.57 years" {
		t.Fatalf("expected +1.57 years from redis memo, got %s", second.Delta)
	}
}
