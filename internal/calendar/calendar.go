// Package calendar builds month grids annotated with projected charges.
package calendar

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/projection"
)

// Index maps an ISO date to the events due that day.
type Index map[string][]model.CalendarEvent

// Count returns the number of events on day d.
func (idx Index) Count(d time.Time) int {
	return len(idx[projection.FormatDate(d)])
}

// On returns the events due on day d.
func (idx Index) On(d time.Time) []model.CalendarEvent {
	return idx[projection.FormatDate(d)]
}

// Between returns every event from start to end inclusive, ordered by date.
func (idx Index) Between(start, end time.Time) []model.CalendarEvent {
	var out []model.CalendarEvent
	for d := projection.Day(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, idx.On(d)...)
	}
	return out
}

// GridRange returns the first and last day of the grid for month: the
// Sunday on or before the 1st and the Saturday on or after the last day.
func GridRange(month time.Time) (time.Time, time.Time) {
	y, m, _ := month.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, 6-int(last.Weekday()))
	return start, end
}

// BuildEventIndex projects every transaction up to horizonEnd and indexes
// the resulting events by date. Events on the same day are ordered by
// merchant, then transaction id.
func BuildEventIndex(txs []model.Transaction, horizonEnd time.Time) Index {
	idx := make(Index)
	byID := make(map[string]model.Transaction, len(txs))
	for _, tx := range txs {
		byID[tx.ID] = tx
	}

	for _, o := range projection.Expand(txs, horizonEnd) {
		tx := byID[o.TxID]
		title := strings.TrimSpace(tx.Description)
		if title == "" {
			title = o.Merchant
		}
		key := projection.FormatDate(o.Date)
		idx[key] = append(idx[key], model.CalendarEvent{
			Date:     key,
			Merchant: o.Merchant,
			Title:    title,
			Amount:   o.Amount,
			Source:   tx.Source,
			TxID:     o.TxID,
		})
	}

	for _, events := range idx {
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Merchant != events[j].Merchant {
				return events[i].Merchant < events[j].Merchant
			}
			return events[i].TxID < events[j].TxID
		})
	}
	return idx
}

// BuildMonthGrid returns the day cells of the grid covering month, one per
// day from the padded Sunday to the padded Saturday.
func BuildMonthGrid(month time.Time, idx Index) []model.DayCell {
	start, end := GridRange(month)
	_, m, _ := month.Date()

	cells := make([]model.DayCell, 0, 42)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		cells = append(cells, model.DayCell{
			Date:       d,
			InMonth:    d.Month() == m,
			EventCount: idx.Count(d),
		})
	}
	return cells
}

// Month builds the grid for month from the raw transactions, projecting
// recurring records up to the grid's last padded day.
func Month(txs []model.Transaction, month time.Time) ([]model.DayCell, Index) {
	_, end := GridRange(month)
	idx := BuildEventIndex(txs, end)
	return BuildMonthGrid(month, idx), idx
}
