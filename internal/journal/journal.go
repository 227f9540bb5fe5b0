/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"theta-vault-client-go/internal/models"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Sentinel errors for journal operations.
var (
	ErrDuplicateTransaction = errors.New("transaction already journaled")
	ErrTransactionNotFound  = errors.New("transaction not found in journal")
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

const (
	queryInsertTransaction = `
		INSERT INTO transactions (id, hash, kind, amount, vault, status, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryUpdateOutcome = `
		UPDATE transactions SET status = ?, confirmed_at = ? WHERE hash = ?`

	queryListTransactions = `
		SELECT id, hash, kind, amount, vault, status, submitted_at, confirmed_at
		FROM transactions
		ORDER BY submitted_at DESC
		LIMIT ? OFFSET ?`
)

// Service persists every submitted transaction so display surfaces in other
// processes can reconcile against the in-memory pending log. Rows are
// append-mostly: the only in-place update is the confirmation outcome.
type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.JournalConfig) (*Service, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening journal database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := NewServiceWithDb(db)
	if err := service.InitSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Journal service initialized successfully")
	return service, nil
}

// NewServiceWithDb wraps an existing connection (tests use :memory:).
func NewServiceWithDb(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		hash TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		amount TEXT NOT NULL,
		vault TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		submitted_at TIMESTAMP NOT NULL,
		confirmed_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_hash ON transactions(hash);
	CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status);
	CREATE INDEX IF NOT EXISTS idx_transactions_submitted_at ON transactions(submitted_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close journal database", zap.Error(err))
	}
}

// RecordSubmitted journals a transaction at submission time with pending
// status.
func (s *Service) RecordSubmitted(ctx context.Context, tx models.PendingTransaction) error {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, queryInsertTransaction,
		id, tx.Hash, string(tx.Kind), tx.Amount, string(tx.Vault), StatusPending, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to journal transaction: %w", err)
	}

	zap.L().Debug("Journaled submitted transaction",
		zap.String("id", id),
		zap.String("hash", tx.Hash),
		zap.String("kind", string(tx.Kind)))

	return nil
}

// RecordOutcome updates a journaled transaction's terminal status. The row
// itself is never removed; failed entries stay for reconciliation.
func (s *Service) RecordOutcome(ctx context.Context, hash string, confirmed bool) error {
	status := StatusFailed
	if confirmed {
		status = StatusConfirmed
	}

	result, err := s.db.ExecContext(ctx, queryUpdateOutcome, status, time.Now().UTC(), hash)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check outcome update: %w", err)
	}
	if rows == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// ListSubmitted returns journaled transactions, newest first.
func (s *Service) ListSubmitted(ctx context.Context, limit, offset int) ([]models.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, queryListTransactions, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var entry models.JournalEntry
		var confirmedAt sql.NullTime
		if err := rows.Scan(&entry.Id, &entry.Hash, &entry.Kind, &entry.Amount,
			&entry.Vault, &entry.Status, &entry.SubmittedAt, &confirmedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		if confirmedAt.Valid {
			entry.ConfirmedAt = confirmedAt.Time
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func isUniqueViolation(err error) bool {
	// mattn/go-sqlite3 reports constraint violations in the error text.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
