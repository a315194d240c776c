// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// SQLiteStore implements QuoteStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based quote store, creating the parent
// directory when needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Quotes fetched from the configured provider
	CREATE TABLE IF NOT EXISTS quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		price REAL NOT NULL,
		prev_close REAL,
		source TEXT NOT NULL,
		fetched_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_quotes_symbol_fetched ON quotes(symbol, fetched_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveQuote records a quote.
func (s *SQLiteStore) SaveQuote(ctx context.Context, quote *models.Quote) error {
	if quote == nil {
		return apperrors.Wrap(apperrors.ErrInputValidation, "quote cannot be nil")
	}

	fetchedAt := quote.Timestamp
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (symbol, price, prev_close, source, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`, quote.Symbol, quote.LTP, quote.Close, quote.Source, fetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}

	return nil
}

// GetLatestQuote returns the most recently fetched quote for symbol.
func (s *SQLiteStore) GetLatestQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var q models.Quote
	var prevClose sql.NullFloat64

	err := s.db.QueryRowContext(ctx, `
		SELECT symbol, price, prev_close, source, fetched_at
		FROM quotes
		WHERE symbol = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1
	`, symbol).Scan(&q.Symbol, &q.LTP, &prevClose, &q.Source, &q.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Wrapf(apperrors.ErrDataNotFound, "no stored quote for %s", symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query quote: %w", err)
	}

	q.Close = prevClose.Float64
	return &q, nil
}

// GetQuoteHistory returns up to limit quotes for symbol, newest first.
func (s *SQLiteStore) GetQuoteHistory(ctx context.Context, symbol string, limit int) ([]models.Quote, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, price, prev_close, source, fetched_at
		FROM quotes
		WHERE symbol = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		var q models.Quote
		var prevClose sql.NullFloat64
		if err := rows.Scan(&q.Symbol, &q.LTP, &prevClose, &q.Source, &q.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		q.Close = prevClose.Float64
		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}
