// Package daemon provides the long-running budget service and its JSON API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/pipeline"
	"github.com/theirongolddev/budgetbuddy/internal/store"
	"github.com/theirongolddev/budgetbuddy/internal/subscriptions"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Dataset      string
	ImportDir    string // CSV statements re-imported on every poll, optional
	HorizonDays  int
	Granularity  model.Granularity
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       zerolog.Logger
}

// Data is the dataset state read on each poll.
type Data struct {
	Transactions []model.Transaction
	Goals        model.Goals
}

// Loader reads the current dataset.
type Loader interface {
	Load(ctx context.Context) (Data, error)
}

// storeLoader reads the dataset from SQLite, importing new statements first.
type storeLoader struct {
	cfg Config
}

func (l storeLoader) Load(ctx context.Context) (Data, error) {
	if err := ctx.Err(); err != nil {
		return Data{}, err
	}

	st, err := store.Open(l.cfg.DBPath, l.cfg.Dataset)
	if err != nil {
		return Data{}, err
	}
	defer func() { _ = st.Close() }()

	if l.cfg.ImportDir != "" {
		res, err := pipeline.LoadWithStore(l.cfg.ImportDir, st, nil)
		if err != nil {
			return Data{}, fmt.Errorf("importing %s: %w", l.cfg.ImportDir, err)
		}
		if res.Reparsed > 0 || res.Removed > 0 {
			l.cfg.Logger.Info().
				Int("reparsed", res.Reparsed).
				Int("removed", res.Removed).
				Int("file_errors", res.FileErrors).
				Msg("imported statements")
		}
	}

	txs, err := st.ListTransactions()
	if err != nil {
		return Data{}, fmt.Errorf("listing transactions: %w", err)
	}
	goals, err := st.GetGoals()
	if err != nil {
		return Data{}, fmt.Errorf("reading goals: %w", err)
	}
	return Data{Transactions: txs, Goals: goals}, nil
}

// Snapshot is a compact budget state for status/event payloads.
type Snapshot struct {
	At                  time.Time            `json:"at"`
	Transactions        int                  `json:"transactions"`
	SpentThisMonth      decimal.Decimal      `json:"spent_this_month"`
	IncomeThisMonth     decimal.Decimal      `json:"income_this_month"`
	MonthlyBudget       decimal.Decimal      `json:"monthly_budget"`
	BudgetUsedPercent   int                  `json:"budget_used_percent"`
	ProjectedMonthly    decimal.Decimal      `json:"projected_monthly"`
	Subscriptions       int                  `json:"subscriptions"`
	SubscriptionMonthly decimal.Decimal      `json:"subscription_monthly"`
	ForecastStatus      model.ForecastStatus `json:"forecast_status"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Transactions        int             `json:"transactions"`
	SpentThisMonth      decimal.Decimal `json:"spent_this_month"`
	IncomeThisMonth     decimal.Decimal `json:"income_this_month"`
	BudgetUsedPercent   int             `json:"budget_used_percent"`
	SubscriptionMonthly decimal.Decimal `json:"subscription_monthly"`
}

func (d Delta) isZero() bool {
	return d.Transactions == 0 &&
		d.SpentThisMonth.IsZero() &&
		d.IncomeThisMonth.IsZero() &&
		d.BudgetUsedPercent == 0 &&
		d.SubscriptionMonthly.IsZero()
}

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventBudgetDelta = "budget_delta"
)

// Event is emitted whenever the budget snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Dataset         string    `json:"dataset"`
	DBPath          string    `json:"db_path"`
	ImportDir       string    `json:"import_dir,omitempty"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	loader Loader
	now    func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	data        Data
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service reading the SQLite dataset named in cfg.
func New(cfg Config) *Service {
	return NewWithLoader(cfg, nil)
}

// NewWithLoader returns a daemon service reading data through loader.
// A nil loader reads the SQLite dataset named in cfg.
func NewWithLoader(cfg Config, loader Loader) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Dataset == "" {
		cfg.Dataset = store.DefaultDataset
	}
	if cfg.Granularity == "" {
		cfg.Granularity = model.Monthly
	}
	if loader == nil {
		loader = storeLoader{cfg: cfg}
	}

	return &Service{
		cfg:       cfg,
		loader:    loader,
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.cfg.Logger.Info().Str("addr", s.cfg.Addr).Str("dataset", s.cfg.Dataset).Msg("daemon listening")

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	data, err := s.loader.Load(ctx)
	now := s.now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.cfg.Logger.Error().Err(err).Msg("poll failed")
		return
	}

	snap := s.buildSnapshot(data, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.data = data
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventBudgetDelta, Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.cfg.Logger.Debug().Int64("id", ev.ID).Str("type", ev.Type).Msg("event published")
		s.publishEvent(ev)
	}
}

func (s *Service) buildSnapshot(data Data, now time.Time) Snapshot {
	res := pipeline.Analyze(pipeline.Input{
		Transactions: data.Transactions,
		Goals:        data.Goals,
		Granularity:  model.Monthly,
		Now:          now,
		HorizonDays:  s.cfg.HorizonDays,
	})
	subs := subscriptions.List(data.Transactions)

	return Snapshot{
		At:                  now,
		Transactions:        len(data.Transactions),
		SpentThisMonth:      res.SpentThisMonth,
		IncomeThisMonth:     res.IncomeThisMonth,
		MonthlyBudget:       data.Goals.MonthlyBudget,
		BudgetUsedPercent:   res.BudgetUsage.Percent,
		ProjectedMonthly:    res.Budget.ProjectedMonthly,
		Subscriptions:       len(subs),
		SubscriptionMonthly: subscriptions.MonthlyTotal(subs).Round(2),
		ForecastStatus:      res.Forecast.Status,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Transactions:        curr.Transactions - prev.Transactions,
		SpentThisMonth:      curr.SpentThisMonth.Sub(prev.SpentThisMonth),
		IncomeThisMonth:     curr.IncomeThisMonth.Sub(prev.IncomeThisMonth),
		BudgetUsedPercent:   curr.BudgetUsedPercent - prev.BudgetUsedPercent,
		SubscriptionMonthly: curr.SubscriptionMonthly.Sub(prev.SubscriptionMonthly),
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// currentData returns the dataset from the last successful poll.
func (s *Service) currentData() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Dataset:         s.cfg.Dataset,
		DBPath:          s.cfg.DBPath,
		ImportDir:       s.cfg.ImportDir,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
