// Package ledger implements an optional, process-lifetime-scoped SQLite
// log of completed page migrations, for post-hoc diagnostics only. It
// never participates in residency or correctness decisions.
package ledger

import (
	"database/sql"
	"fmt"
	"sync"

	// Registers the "sqlite3" driver with database/sql.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// Event is one migration record.
type Event struct {
	ID          string
	VPN         uint64
	Direction   string
	Bytes       uint64
	ElapsedUs   int64
	TimestampUs int64
}

// Ledger batches Events and flushes them to a SQLite database in a single
// transaction, mirroring how the reference trace writer batches rows
// before a BEGIN/COMMIT pair.
type Ledger struct {
	mu sync.Mutex

	db        *sql.DB
	statement *sql.Stmt
	batchSize int
	pending   []Event
}

// Open creates (or, if path is "", names) a SQLite-backed Ledger and
// registers a best-effort flush at process exit.
func Open(path string) (*Ledger, error) {
	if path == "" {
		path = "uvm_migrations_" + xid.New().String() + ".sqlite3"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", path, err)
	}

	l := &Ledger{db: db, batchSize: 1000}

	if err := l.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	if err := l.prepareStatement(); err != nil {
		db.Close()
		return nil, err
	}

	atexit.Register(func() { _ = l.Flush() })

	return l, nil
}

func (l *Ledger) createTable() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS migration_events (
			id           TEXT PRIMARY KEY,
			vpn          INTEGER NOT NULL,
			direction    TEXT NOT NULL,
			bytes        INTEGER NOT NULL,
			elapsed_us   INTEGER NOT NULL,
			timestamp_us INTEGER NOT NULL
		);
	`)
	return err
}

func (l *Ledger) prepareStatement() error {
	stmt, err := l.db.Prepare(
		`INSERT INTO migration_events VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	l.statement = stmt
	return nil
}

// Append buffers an event, generating a correlation ID for it, and
// flushes the buffer once it reaches the configured batch size.
func (l *Ledger) Append(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.ID == "" {
		e.ID = xid.New().String()
	}
	l.pending = append(l.pending, e)
	if len(l.pending) >= l.batchSize {
		l.flushLocked()
	}
}

// Flush writes any buffered events to the database now.
func (l *Ledger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.flushLocked()
}

func (l *Ledger) flushLocked() error {
	if len(l.pending) == 0 {
		return nil
	}

	if _, err := l.db.Exec("BEGIN TRANSACTION"); err != nil {
		return err
	}

	for _, e := range l.pending {
		if _, err := l.statement.Exec(
			e.ID, e.VPN, e.Direction, e.Bytes, e.ElapsedUs, e.TimestampUs,
		); err != nil {
			l.db.Exec("ROLLBACK TRANSACTION")
			return fmt.Errorf("ledger: insert: %w", err)
		}
	}

	if _, err := l.db.Exec("COMMIT TRANSACTION"); err != nil {
		return err
	}

	l.pending = nil
	return nil
}

// Close flushes any buffered events and closes the underlying database.
func (l *Ledger) Close() error {
	if err := l.Flush(); err != nil {
		return err
	}
	return l.db.Close()
}
