// Package store provides SQLite-backed persistence for budget datasets.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetbuddy/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// DefaultDataset is used when no dataset is named.
const DefaultDataset = "default"

// Store reads and writes one dataset in a SQLite database. Several stores
// may share a file; every row is keyed by dataset.
type Store struct {
	db      *sql.DB
	dataset string
}

// FileInfo holds the tracked mtime and size for an imported file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Open opens or creates the database at dbPath, migrates it, and binds the
// returned store to dataset.
func Open(dbPath, dataset string) (*Store, error) {
	if strings.TrimSpace(dataset) == "" {
		dataset = DefaultDataset
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening budget db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening budget db: %w", err)
	}

	return &Store{db: db, dataset: dataset}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dataset returns the dataset this store is bound to.
func (s *Store) Dataset() string {
	return s.dataset
}

const txColumns = `id, date, merchant, description, category, amount, source,
	interval_days, next_charge_date, file_path`

// AddTransaction inserts tx, replacing any row with the same ID.
func (s *Store) AddTransaction(tx model.Transaction) error {
	if tx.ID == "" {
		return errors.New("transaction has no id")
	}
	return insertTransaction(s.db, s.dataset, tx)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertTransaction(e execer, dataset string, tx model.Transaction) error {
	_, err := e.Exec(`INSERT OR REPLACE INTO transactions
		(dataset, `+txColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dataset, tx.ID, tx.Date, tx.Merchant, tx.Description, tx.Category, tx.Amount,
		string(tx.Source), tx.IntervalDays, tx.NextChargeDate, tx.FilePath,
	)
	return err
}

// ReplaceFileTransactions swaps every row imported from path for txs and
// records the file's mtime and size, all in one transaction.
func (s *Store) ReplaceFileTransactions(path string, txs []model.Transaction, mtimeNs, sizeBytes int64) error {
	dbtx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = dbtx.Rollback() }()

	if _, err := dbtx.Exec("DELETE FROM transactions WHERE dataset = ? AND file_path = ?", s.dataset, path); err != nil {
		return fmt.Errorf("clearing %s: %w", path, err)
	}
	for _, tx := range txs {
		tx.FilePath = path
		if err := insertTransaction(dbtx, s.dataset, tx); err != nil {
			return fmt.Errorf("inserting %s: %w", tx.ID, err)
		}
	}

	_, err = dbtx.Exec(`INSERT OR REPLACE INTO file_tracker (dataset, file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?, ?)`, s.dataset, path, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return dbtx.Commit()
}

// ForgetFile removes the rows and tracking entry of an imported file.
func (s *Store) ForgetFile(path string) error {
	dbtx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = dbtx.Rollback() }()

	if _, err := dbtx.Exec("DELETE FROM transactions WHERE dataset = ? AND file_path = ?", s.dataset, path); err != nil {
		return err
	}
	if _, err := dbtx.Exec("DELETE FROM file_tracker WHERE dataset = ? AND file_path = ?", s.dataset, path); err != nil {
		return err
	}
	return dbtx.Commit()
}

// ListTransactions returns every transaction in the dataset ordered by date
// then ID.
func (s *Store) ListTransactions() ([]model.Transaction, error) {
	rows, err := s.db.Query(`SELECT `+txColumns+`
		FROM transactions WHERE dataset = ? ORDER BY date, id`, s.dataset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var txs []model.Transaction
	for rows.Next() {
		var tx model.Transaction
		var source string
		err := rows.Scan(&tx.ID, &tx.Date, &tx.Merchant, &tx.Description, &tx.Category,
			&tx.Amount, &source, &tx.IntervalDays, &tx.NextChargeDate, &tx.FilePath)
		if err != nil {
			return nil, err
		}
		tx.Source = model.Source(source)
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// DeleteTransaction removes a transaction by ID and reports whether it existed.
func (s *Store) DeleteTransaction(id string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM transactions WHERE dataset = ? AND id = ?", s.dataset, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// TransactionCount returns the number of transactions in the dataset.
func (s *Store) TransactionCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transactions WHERE dataset = ?", s.dataset).Scan(&count)
	return count, err
}

// GetGoals returns the dataset's goals. A dataset without saved goals has
// zero goals.
func (s *Store) GetGoals() (model.Goals, error) {
	var g model.Goals
	err := s.db.QueryRow("SELECT monthly_budget, savings_goal FROM goals WHERE dataset = ?", s.dataset).
		Scan(&g.MonthlyBudget, &g.SavingsGoal)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Goals{MonthlyBudget: decimal.Zero, SavingsGoal: decimal.Zero}, nil
	}
	return g, err
}

// SaveGoals stores the dataset's goals.
func (s *Store) SaveGoals(g model.Goals) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO goals (dataset, monthly_budget, savings_goal, updated_at)
		VALUES (?, ?, ?, ?)`,
		s.dataset, g.MonthlyBudget.String(), g.SavingsGoal.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetTrackedFiles returns a map of file_path -> FileInfo for every file
// imported into the dataset.
func (s *Store) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := s.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker WHERE dataset = ?", s.dataset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}
