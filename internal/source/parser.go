// Package source discovers and parses CSV bank statements.
package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/budgetbuddy/internal/categorize"
	"github.com/theirongolddev/budgetbuddy/internal/model"
	"github.com/theirongolddev/budgetbuddy/internal/projection"
)

// idNamespace seeds row IDs so re-importing an unchanged file yields the
// same transaction IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("budgetbuddy/csv"))

// dateLayouts are tried in order for the date column.
var dateLayouts = []string{
	projection.DateLayout,
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"Jan 2, 2006",
	"Jan 2 2006",
	"02 Jan 2006",
	"2 Jan 2006",
}

// ParseFile reads a CSV statement and converts each row to a transaction.
// Rows with an unparseable date or amount are counted in ParseErrors and
// skipped. Header problems are reported through Err.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{File: df, Err: err}
	}
	defer func() { _ = f.Close() }()

	res := Parse(f, df.Path, nil)
	res.File = df
	if res.Err != nil {
		res.Err = fmt.Errorf("%s: %w", df.Path, res.Err)
	}
	return res
}

// Parse converts CSV content to transactions. path is recorded on each
// transaction and used to derive stable IDs. A nil categorizer uses the
// default rules.
func Parse(r io.Reader, path string, cat *categorize.Categorizer) ParseResult {
	if cat == nil {
		cat = categorize.New(nil)
	}

	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ParseResult{Err: ErrEmptyFile}
	}
	if err != nil {
		return ParseResult{Err: fmt.Errorf("header: %w", err)}
	}

	cols, err := detectColumns(header)
	if err != nil {
		return ParseResult{Err: err}
	}

	var res ParseResult
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.ParseErrors++
			continue
		}
		if blankRecord(rec) {
			continue
		}
		res.Rows++

		tx, ok := parseRow(rec, cols)
		if !ok {
			res.ParseErrors++
			continue
		}
		tx.ID = rowID(path, line, rec)
		tx.Source = model.SourceCSV
		tx.FilePath = path
		res.Transactions = append(res.Transactions, tx)
	}

	if len(res.Transactions) == 0 {
		if res.Rows == 0 && res.ParseErrors == 0 {
			res.Err = ErrEmptyFile
		} else {
			res.Err = ErrNoValidRows
		}
		return res
	}

	cat.Apply(res.Transactions)
	return res
}

// detectColumns maps the header row to column indexes.
func detectColumns(header []string) (columns, error) {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	cols := columns{
		date:     findColumn(norm, dateHeaders, -1),
		merchant: findColumn(norm, merchantHeaders, -1),
		amount:   findColumn(norm, amountHeaders, -1),
		credit:   findColumn(norm, creditHeaders, -1),
		category: findColumn(norm, categoryHeaders, -1),
	}
	cols.description = findColumn(norm, descriptionHeaders, cols.merchant)

	switch {
	case cols.date < 0:
		return cols, ErrNoDateColumn
	case cols.merchant < 0:
		return cols, ErrNoMerchantColumn
	case cols.amount < 0 && cols.credit < 0:
		return cols, ErrNoAmountColumn
	}
	return cols, nil
}

// findColumn returns the first header matching a candidate, in candidate
// order, ignoring the column at skip.
func findColumn(header, candidates []string, skip int) int {
	for _, c := range candidates {
		for i, h := range header {
			if i != skip && h == c {
				return i
			}
		}
	}
	return -1
}

func parseRow(rec []string, cols columns) (model.Transaction, bool) {
	var tx model.Transaction

	d, ok := parseDate(field(rec, cols.date))
	if !ok {
		return tx, false
	}

	var amount float64
	if cols.amount >= 0 {
		v, ok := parseAmount(field(rec, cols.amount))
		if !ok {
			return tx, false
		}
		amount = v
	}
	if cols.credit >= 0 {
		if v, ok := parseAmount(field(rec, cols.credit)); ok {
			amount -= v
		}
	}

	tx.Date = projection.FormatDate(d)
	tx.Merchant = field(rec, cols.merchant)
	if cols.description >= 0 {
		tx.Description = field(rec, cols.description)
	}
	if tx.Merchant == "" {
		tx.Merchant = tx.Description
	}
	if cols.category >= 0 {
		tx.Category = field(rec, cols.category)
	}
	tx.Amount = amount
	return tx, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return projection.Day(t), true
		}
	}
	return time.Time{}, false
}

// parseAmount accepts "$1,234.56", "-12.00" and accounting style "(12.00)".
// An empty cell is zero.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func rowID(path string, line int, rec []string) string {
	key := path + "\x00" + strconv.Itoa(line) + "\x00" + strings.Join(rec, "\x1f")
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}
