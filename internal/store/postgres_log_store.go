package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RHUDHRESH/Raptorflow-sub026/internal/model"
)

// PostgresLogStore implements ReplicationLogStore using PostgreSQL
type PostgresLogStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLogStore creates a Postgres-backed log store and verifies the
// connection.
func NewPostgresLogStore(ctx context.Context, connString string) (*PostgresLogStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresLogStore{pool: pool}, nil
}

// EnsureSchema creates the replication_log table if it does not exist
func (s *PostgresLogStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS replication_log (
			log_id          UUID PRIMARY KEY,
			operation       TEXT NOT NULL,
			key             TEXT NOT NULL,
			value           BYTEA,
			timestamp       TIMESTAMPTZ NOT NULL,
			node_id         TEXT NOT NULL,
			sequence_number BIGINT NOT NULL,
			checksum        TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_replication_log_key ON replication_log (key, timestamp);
	`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create replication_log schema: %w", err)
	}
	return nil
}

// Append stores one log entry
func (s *PostgresLogStore) Append(ctx context.Context, entry *model.ReplicationLogEntry) error {
	query := `
		INSERT INTO replication_log (
			log_id, operation, key, value, timestamp, node_id, sequence_number, checksum
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		entry.LogID,
		entry.Operation,
		entry.Key,
		entry.Value,
		entry.Timestamp,
		entry.NodeID,
		entry.SequenceNumber,
		entry.Checksum,
	)

	if err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	return nil
}

// List returns up to limit entries for a key, oldest first
func (s *PostgresLogStore) List(ctx context.Context, key string, limit int) ([]*model.ReplicationLogEntry, error) {
	query := `
		SELECT log_id, operation, key, value, timestamp, node_id, sequence_number, checksum
		FROM replication_log
		WHERE key = $1
		ORDER BY timestamp ASC
		LIMIT NULLIF($2, 0)
	`

	rows, err := s.pool.Query(ctx, query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.ReplicationLogEntry, 0)
	for rows.Next() {
		var entry model.ReplicationLogEntry
		if err := rows.Scan(
			&entry.LogID,
			&entry.Operation,
			&entry.Key,
			&entry.Value,
			&entry.Timestamp,
			&entry.NodeID,
			&entry.SequenceNumber,
			&entry.Checksum,
		); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Count returns the total number of entries
func (s *PostgresLogStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM replication_log`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}
	return count, nil
}

// Prune removes entries older than the retention window
func (s *PostgresLogStore) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	result, err := s.pool.Exec(ctx, `DELETE FROM replication_log WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune log entries: %w", err)
	}

	return result.RowsAffected(), nil
}

// Ping checks the database connection
func (s *PostgresLogStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool
func (s *PostgresLogStore) Close() error {
	s.pool.Close()
	return nil
}
