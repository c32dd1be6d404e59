package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/model"
)

func serve(t *testing.T, s *Service, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %s: %v", rec.Body.String(), err)
	}
	return v
}

func polledService(t *testing.T) *Service {
	t.Helper()
	s := newTestService(t, &fakeLoader{data: sampleData()})
	s.pollOnce(context.Background())
	return s
}

func TestHealthz(t *testing.T) {
	rec := serve(t, polledService(t), "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestStatusAndEvents(t *testing.T) {
	s := polledService(t)

	st := decode[Status](t, serve(t, s, "/v1/status"))
	if st.Dataset != "test" || st.PollCount != 1 {
		t.Errorf("status = %+v", st)
	}

	events := decode[[]Event](t, serve(t, s, "/v1/events"))
	if len(events) != 1 || events[0].Type != EventSnapshot {
		t.Errorf("events = %+v, want one snapshot", events)
	}
}

func TestAmountsAreJSONNumbers(t *testing.T) {
	rec := serve(t, polledService(t), "/v1/status")
	if !strings.Contains(rec.Body.String(), `"spent_this_month":1660.5`) {
		t.Errorf("spent_this_month not a bare number: %s", rec.Body.String())
	}
}

func TestBuckets(t *testing.T) {
	s := polledService(t)

	resp := decode[BucketsResponse](t, serve(t, s, "/v1/buckets?granularity=weekly&date=2024-03-06"))
	if resp.Granularity != model.Weekly {
		t.Errorf("Granularity = %q, want weekly", resp.Granularity)
	}
	if len(resp.Buckets) != 7 {
		t.Fatalf("buckets = %d, want 7", len(resp.Buckets))
	}
	// Week of Mon 03-04: Netflix on 03-05 and the cafe on 03-09.
	if want := decimal.NewFromFloat(60.5); !resp.Expenses.Equal(want) {
		t.Errorf("Expenses = %s, want %s", resp.Expenses, want)
	}

	monthly := decode[BucketsResponse](t, serve(t, s, "/v1/buckets"))
	if monthly.Granularity != model.Monthly || monthly.Title == "" {
		t.Errorf("default view = %q %q", monthly.Granularity, monthly.Title)
	}
}

func TestBuckets_BadParams(t *testing.T) {
	s := polledService(t)
	for _, path := range []string{"/v1/buckets?granularity=daily", "/v1/buckets?date=03/10/2024", "/v1/calendar?month=March"} {
		rec := serve(t, s, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("%s body = %s, want error JSON", path, rec.Body.String())
		}
	}
}

func TestCategories(t *testing.T) {
	resp := decode[CategoriesResponse](t, serve(t, polledService(t), "/v1/categories"))
	if len(resp.Categories) != 4 {
		t.Fatalf("categories = %+v, want 4", resp.Categories)
	}
	if resp.Categories[0].Category != "Rent" {
		t.Errorf("top category = %s, want Rent", resp.Categories[0].Category)
	}
}

func TestForecast(t *testing.T) {
	resp := decode[ForecastResponse](t, serve(t, polledService(t), "/v1/forecast"))
	if !resp.BudgetUsage.Available || resp.BudgetUsage.Percent != 83 {
		t.Errorf("BudgetUsage = %+v, want 83%%", resp.BudgetUsage)
	}
	// One history month with 3000 income: 1000/month toward 6000.
	if resp.Forecast.Status != model.ForecastOK || resp.Forecast.Months != 6 {
		t.Errorf("Forecast = %+v, want ok in 6 months", resp.Forecast)
	}
	if !resp.Goals.MonthlyBudget.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Goals = %+v", resp.Goals)
	}
}

func TestCalendar(t *testing.T) {
	resp := decode[CalendarResponse](t, serve(t, polledService(t), "/v1/calendar?month=2024-03"))
	if resp.Month != "2024-03" {
		t.Errorf("Month = %q", resp.Month)
	}
	if len(resp.Cells) != 42 {
		t.Errorf("cells = %d, want 42", len(resp.Cells))
	}
	var merchants []string
	for _, ev := range resp.Events {
		merchants = append(merchants, ev.Merchant)
	}
	want := "Landlord,Netflix,Cafe,Airline"
	if got := strings.Join(merchants, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}

func TestSubscriptions(t *testing.T) {
	resp := decode[SubscriptionsResponse](t, serve(t, polledService(t), "/v1/subscriptions"))
	if len(resp.Subscriptions) != 1 || resp.Subscriptions[0].Merchant != "Netflix" {
		t.Fatalf("subscriptions = %+v", resp.Subscriptions)
	}
	if !resp.MonthlyTotal.Equal(decimal.NewFromInt(15)) {
		t.Errorf("MonthlyTotal = %s, want 15", resp.MonthlyTotal)
	}
}

func TestUnknownRoute(t *testing.T) {
	if rec := serve(t, polledService(t), "/v1/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerLeavesDecimalEncodingAlone(t *testing.T) {
	if decimal.MarshalJSONWithoutQuotes {
		t.Fatal("importing daemon changed decimal.MarshalJSONWithoutQuotes")
	}
	rec := serve(t, polledService(t), "/v1/subscriptions")
	if decimal.MarshalJSONWithoutQuotes {
		t.Fatal("serving a request changed decimal.MarshalJSONWithoutQuotes")
	}
	resp := decode[SubscriptionsResponse](t, rec)
	if !resp.MonthlyTotal.Equal(decimal.NewFromInt(15)) {
		t.Errorf("monthly total = %s, want 15", resp.MonthlyTotal)
	}
}
