// Package eventindex persists transfer events into a relational database so
// explorers and support tooling can query transfer history without replaying
// the kv state. Sqlite serves single-node deployments, postgres shared ones.
package eventindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/core/token"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var (
	// ErrIndexClosed is returned by operations on a closed index.
	ErrIndexClosed = errors.New("event index closed")

	// ErrUnknownBackend is returned for backends Open does not know.
	ErrUnknownBackend = errors.New("unknown event index backend")
)

// Config selects and tunes the index backend.
type Config struct {
	Backend string
	DSN     string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Index is the transfer-event repository.
type Index struct {
	db      *sql.DB
	backend string
}

// Open connects to the configured backend and initializes the schema.
func Open(ctx context.Context, cfg Config) (*Index, error) {
	var driver string
	switch cfg.Backend {
	case BackendSQLite:
		driver = "sqlite"
	case BackendPostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open event index: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping event index: %w", err)
	}

	idx := &Index{db: db, backend: cfg.Backend}
	if err := idx.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// Close releases the database connection.
func (idx *Index) Close() error {
	if idx.db == nil {
		return nil
	}
	err := idx.db.Close()
	idx.db = nil
	return err
}

func (idx *Index) initSchema(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if idx.backend == BackendPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}
	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transfer_events (
			id %s,
			action VARCHAR(32) NOT NULL,
			from_addr VARCHAR(90) NOT NULL,
			to_addr VARCHAR(90) NOT NULL,
			by_addr VARCHAR(90) NOT NULL,
			amount BIGINT NOT NULL,
			indexed_at BIGINT NOT NULL
		)`, serial),
		`CREATE INDEX IF NOT EXISTS idx_transfer_events_from ON transfer_events(from_addr)`,
		`CREATE INDEX IF NOT EXISTS idx_transfer_events_to ON transfer_events(to_addr)`,
		`CREATE INDEX IF NOT EXISTS idx_transfer_events_action ON transfer_events(action)`,
	}
	for _, q := range queries {
		if _, err := idx.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init event index schema: %w", err)
		}
	}
	return nil
}

// placeholder renders the n-th positional SQL placeholder for the backend.
func (idx *Index) placeholder(n int) string {
	if idx.backend == BackendPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// SaveTransfers appends a batch of events in one transaction.
func (idx *Index) SaveTransfers(ctx context.Context, events []token.TransferEvent) error {
	if idx.db == nil {
		return ErrIndexClosed
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin event index tx: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(
		`INSERT INTO transfer_events (action, from_addr, to_addr, by_addr, amount, indexed_at)
		 VALUES (%s, %s, %s, %s, %s, %s)`,
		idx.placeholder(1), idx.placeholder(2), idx.placeholder(3),
		idx.placeholder(4), idx.placeholder(5), idx.placeholder(6))

	now := time.Now().Unix()
	for _, ev := range events {
		_, err := tx.ExecContext(ctx, query,
			ev.Action, string(ev.From), string(ev.To), string(ev.By),
			int64(ev.Amount), now)
		if err != nil {
			return fmt.Errorf("insert transfer event: %w", err)
		}
	}
	return tx.Commit()
}

// PublishTransfers implements the engine's event sink contract.
func (idx *Index) PublishTransfers(ctx context.Context, events []token.TransferEvent) error {
	return idx.SaveTransfers(ctx, events)
}

// IndexedEvent is one stored event row.
type IndexedEvent struct {
	ID        int64               `json:"id"`
	Event     token.TransferEvent `json:"event"`
	IndexedAt int64               `json:"indexed_at"`
}

// RecentTransfers returns the newest events, newest first.
func (idx *Index) RecentTransfers(ctx context.Context, limit int) ([]IndexedEvent, error) {
	if idx.db == nil {
		return nil, ErrIndexClosed
	}
	query := fmt.Sprintf(
		`SELECT id, action, from_addr, to_addr, by_addr, amount, indexed_at
		 FROM transfer_events ORDER BY id DESC LIMIT %s`, idx.placeholder(1))
	rows, err := idx.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent transfers: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// AccountTransfers returns the newest events touching an account, as sender
// or recipient, newest first.
func (idx *Index) AccountTransfers(ctx context.Context, addr string, limit int) ([]IndexedEvent, error) {
	if idx.db == nil {
		return nil, ErrIndexClosed
	}
	query := fmt.Sprintf(
		`SELECT id, action, from_addr, to_addr, by_addr, amount, indexed_at
		 FROM transfer_events WHERE from_addr = %s OR to_addr = %s
		 ORDER BY id DESC LIMIT %s`,
		idx.placeholder(1), idx.placeholder(2), idx.placeholder(3))
	rows, err := idx.db.QueryContext(ctx, query, addr, addr, limit)
	if err != nil {
		return nil, fmt.Errorf("query account transfers: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// TransferCount returns the total number of indexed events.
func (idx *Index) TransferCount(ctx context.Context) (int64, error) {
	if idx.db == nil {
		return 0, ErrIndexClosed
	}
	var count int64
	err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transfer_events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transfer events: %w", err)
	}
	return count, nil
}

func scanEvents(rows *sql.Rows) ([]IndexedEvent, error) {
	var out []IndexedEvent
	for rows.Next() {
		var (
			ev           IndexedEvent
			from, to, by string
			amount       int64
		)
		if err := rows.Scan(&ev.ID, &ev.Event.Action, &from, &to, &by, &amount, &ev.IndexedAt); err != nil {
			return nil, fmt.Errorf("scan transfer event: %w", err)
		}
		ev.Event.From = asset.Address(from)
		ev.Event.To = asset.Address(to)
		ev.Event.By = asset.Address(by)
		ev.Event.Amount = uint64(amount)
		out = append(out, ev)
	}
	return out, rows.Err()
}
