package daemon

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/calendar"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/pipeline"
	"github.com/theirongolddev/budgetbuddy/internal/projection"
	"github.com/theirongolddev/budgetbuddy/internal/subscriptions"
)

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(recovery(s.cfg.Logger))
	r.Use(requestLogger(s.cfg.Logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
		r.Get("/summary", s.handleSummary)
		r.Get("/buckets", s.handleBuckets)
		r.Get("/categories", s.handleCategories)
		r.Get("/forecast", s.handleForecast)
		r.Get("/calendar", s.handleCalendar)
		r.Get("/subscriptions", s.handleSubscriptions)
	})
	return r
}

// BucketsResponse is served at /v1/buckets.
type BucketsResponse struct {
	Granularity model.Granularity `json:"granularity"`
	Scope       model.Scope       `json:"scope"`
	Title       string            `json:"title"`
	Buckets     []model.Bucket    `json:"buckets"`
	Income      decimal.Decimal   `json:"income"`
	Expenses    decimal.Decimal   `json:"expenses"`
	Net         decimal.Decimal   `json:"net"`
}

// CategoriesResponse is served at /v1/categories.
type CategoriesResponse struct {
	Scope      model.Scope           `json:"scope"`
	Title      string                `json:"title"`
	Categories []model.CategoryTotal `json:"categories"`
	Expenses   decimal.Decimal       `json:"expenses"`
}

// ForecastResponse is served at /v1/forecast.
type ForecastResponse struct {
	Goals       model.Goals             `json:"goals"`
	BudgetUsage model.BudgetUsage       `json:"budget_usage"`
	Budget      model.BudgetStats       `json:"budget"`
	Forecast    model.ForecastResult    `json:"forecast"`
	Cashflow    []model.MonthlyCashflow `json:"cashflow"`
}

// CalendarResponse is served at /v1/calendar.
type CalendarResponse struct {
	Month  string                `json:"month"`
	Cells  []model.DayCell       `json:"cells"`
	Events []model.CalendarEvent `json:"events"`
}

// SubscriptionsResponse is served at /v1/subscriptions.
type SubscriptionsResponse struct {
	Subscriptions []model.Subscription `json:"subscriptions"`
	MonthlyTotal  decimal.Decimal      `json:"monthly_total"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

// analyze runs the pipeline over the last polled data for the period
// selected by the granularity and date query parameters.
func (s *Service) analyze(r *http.Request) (pipeline.Result, bool, string) {
	q := r.URL.Query()

	g := s.cfg.Granularity
	if v := q.Get("granularity"); v != "" {
		parsed, err := model.ParseGranularity(v)
		if err != nil {
			return pipeline.Result{}, false, err.Error()
		}
		g = parsed
	}

	now := s.now()
	anchor := now
	if v := q.Get("date"); v != "" {
		d, ok := projection.ParseDate(v)
		if !ok {
			return pipeline.Result{}, false, "invalid date " + v + " (want YYYY-MM-DD)"
		}
		anchor = d
	}

	data := s.currentData()
	scope := pipeline.CurrentScope(g, anchor)
	return pipeline.Analyze(pipeline.Input{
		Transactions: data.Transactions,
		Goals:        data.Goals,
		Granularity:  g,
		Scope:        &scope,
		Now:          now,
		HorizonDays:  s.cfg.HorizonDays,
	}), true, ""
}

func (s *Service) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, ok, msg := s.analyze(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleBuckets(w http.ResponseWriter, r *http.Request) {
	res, ok, msg := s.analyze(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, BucketsResponse{
		Granularity: res.Granularity,
		Scope:       res.Scope,
		Title:       pipeline.ScopeTitle(res.Scope, res.Granularity),
		Buckets:     res.Buckets,
		Income:      res.Income,
		Expenses:    res.Expenses,
		Net:         res.Net,
	})
}

func (s *Service) handleCategories(w http.ResponseWriter, r *http.Request) {
	res, ok, msg := s.analyze(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	cats := res.Categories
	if cats == nil {
		cats = []model.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{
		Scope:      res.Scope,
		Title:      pipeline.ScopeTitle(res.Scope, res.Granularity),
		Categories: cats,
		Expenses:   res.Expenses,
	})
}

func (s *Service) handleForecast(w http.ResponseWriter, r *http.Request) {
	res, ok, msg := s.analyze(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, ForecastResponse{
		Goals:       s.currentData().Goals,
		BudgetUsage: res.BudgetUsage,
		Budget:      res.Budget,
		Forecast:    res.Forecast,
		Cashflow:    res.Cashflow,
	})
}

func (s *Service) handleCalendar(w http.ResponseWriter, r *http.Request) {
	month := s.now()
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := time.Parse("2006-01", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month "+v+" (want YYYY-MM)")
			return
		}
		month = m
	}
	y, m, _ := month.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)

	cells, idx := calendar.Month(s.currentData().Transactions, first)
	events := idx.Between(first, first.AddDate(0, 1, -1))
	if events == nil {
		events = []model.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, CalendarResponse{
		Month:  first.Format("2006-01"),
		Cells:  cells,
		Events: events,
	})
}

func (s *Service) handleSubscriptions(w http.ResponseWriter, _ *http.Request) {
	subs := subscriptions.List(s.currentData().Transactions)
	if subs == nil {
		subs = []model.Subscription{}
	}
	writeJSON(w, http.StatusOK, SubscriptionsResponse{
		Subscriptions: subs,
		MonthlyTotal:  subscriptions.MonthlyTotal(subs).Round(2),
	})
}
