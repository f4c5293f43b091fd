package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"newsrobot/internal/domain"
	"newsrobot/internal/ports"
)

const deliveredTable = "delivered_urls"

// PostgresStore persists the ledger in a delivered_urls table
// (url text primary key, delivered_at timestamptz). Useful when several
// deployments should share one delivery history.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.LedgerStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to Postgres using the given DSN and verifies the
// connection.
func Open(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresStore(db), nil
}

// Load reads every delivered URL with its timestamp.
func (s *PostgresStore) Load(ctx context.Context) ([]domain.LedgerEntry, error) {
	if s.db == nil {
		return nil, nil
	}

	query, args, err := s.builder.
		Select("url", "delivered_at").
		From(deliveredTable).
		OrderBy("url").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query delivered urls: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.URL, &e.DeliveredAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return entries, nil
}

// Save replaces the stored snapshot with the given entries inside one
// transaction, so eviction decided in memory reaches the table too.
func (s *PostgresStore) Save(ctx context.Context, entries []domain.LedgerEntry) error {
	if s.db == nil {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	del, delArgs, err := s.builder.Delete(deliveredTable).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("clear delivered urls: %w", err)
	}

	if len(entries) > 0 {
		insert := s.builder.Insert(deliveredTable).Columns("url", "delivered_at")
		for _, e := range entries {
			insert = insert.Values(e.URL, e.DeliveredAt)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert delivered urls: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
