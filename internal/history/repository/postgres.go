package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ASEODA/narashop-estimate/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps history in the estimate_history table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	limit int
}

func NewPostgresStore(pool *pgxpool.Pool, limit int) *PostgresStore {
	return &PostgresStore{pool: pool, limit: normalizeLimit(limit)}
}

const historyColumns = `id, created_at, customer_name, project_name, total_amount, item_count, filename, COALESCE(document_key, ''), request`

// Append inserts the entry and prunes everything beyond the newest limit
// rows in the same transaction.
func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin history append: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var documentKey *string
	if entry.DocumentKey != "" {
		documentKey = &entry.DocumentKey
	}
	var request []byte
	if len(entry.Request) > 0 {
		request = entry.Request
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO estimate_history
			(id, created_at, customer_name, project_name, total_amount, item_count, filename, document_key, request)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID,
		entry.CreatedAt,
		entry.CustomerName,
		entry.ProjectName,
		entry.TotalAmount,
		entry.ItemCount,
		entry.Filename,
		documentKey,
		request,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM estimate_history
		WHERE id NOT IN (
			SELECT id FROM estimate_history ORDER BY created_at DESC LIMIT $1
		)`, s.limit)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + historyColumns + ` FROM estimate_history ORDER BY created_at DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Find(ctx context.Context, id uuid.UUID) (Entry, error) {
	query := `SELECT ` + historyColumns + ` FROM estimate_history WHERE id = $1`

	e, err := scanEntry(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, apperr.NotFound(msgEntryNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get history entry: %w", err)
	}
	return e, nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	var request []byte
	err := row.Scan(
		&e.ID,
		&e.CreatedAt,
		&e.CustomerName,
		&e.ProjectName,
		&e.TotalAmount,
		&e.ItemCount,
		&e.Filename,
		&e.DocumentKey,
		&request,
	)
	if len(request) > 0 {
		e.Request = request
	}
	return e, err
}
